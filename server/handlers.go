package server

import (
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vinayprograms/resumerag/catalog"
	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/matcher"
)

// IndexResponse is the body of POST /index_resumes.
type IndexResponse struct {
	Results []matcher.FileResult `json:"results"`
}

// QueryResponse is the body of POST /query.
type QueryResponse struct {
	Results []matcher.Result `json:"results"`
}

// ListResponse is the body of GET /resumes.
type ListResponse struct {
	Resumes []catalog.Entry `json:"resumes"`
	Count   int             `json:"count"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Dimension int    `json:"dimension"`
}

// ErrorResponse wraps a structured error.
type ErrorResponse struct {
	Error *errors.Error `json:"error"`
}

// queryRequest accepts both form and JSON bodies. TopK is a pointer so an
// omitted value can take the default while an explicit 0 is rejected.
type queryRequest struct {
	JobDescription string `json:"job_description" form:"job_description"`
	TopK           *int   `json:"top_k"`
}

func writeError(c *gin.Context, err error) {
	e := errors.As(err)
	if e == nil {
		e = errors.Wrap(err, "request failed")
	}
	c.JSON(errors.HTTPStatus(e), ErrorResponse{Error: e})
}

func (s *Server) indexResumes(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(c, errors.New(errors.ErrCodeTooLarge, "upload exceeds size limit",
				errors.WithMetadata("limit", strconv.FormatInt(s.config.MaxUploadBytes, 10))))
			return
		}
		writeError(c, errors.InvalidInput("expected multipart form with field \"files\"", errors.WithCause(err)))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		writeError(c, errors.InvalidInput("no files uploaded"))
		return
	}

	// slots keeps upload order when some parts cannot be read
	out := make([]matcher.FileResult, len(headers))
	uploads := make([]matcher.Upload, 0, len(headers))
	slots := make([]int, 0, len(headers))
	for i, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			out[i] = matcher.FileResult{
				Filename: fh.Filename,
				Status:   matcher.StatusFailed,
				Error:    "cannot read upload: " + err.Error(),
				Code:     string(errors.ErrCodeInvalidInput),
			}
			continue
		}
		uploads = append(uploads, matcher.Upload{Filename: fh.Filename, Data: data})
		slots = append(slots, i)
	}

	for j, r := range s.svc.IndexBatch(c.Request.Context(), uploads) {
		out[slots[j]] = r
	}
	c.JSON(http.StatusOK, IndexResponse{Results: out})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errors.InvalidInput("malformed JSON body", errors.WithCause(err)))
			return
		}
	} else {
		req.JobDescription = c.PostForm("job_description")
		if raw, ok := c.GetPostForm("top_k"); ok && strings.TrimSpace(raw) != "" {
			k, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				writeError(c, errors.InvalidInput("top_k must be an integer"))
				return
			}
			req.TopK = &k
		}
	}

	topK := s.config.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	results, err := s.svc.Match(c.Request.Context(), matcher.Query{
		JobDescription: req.JobDescription,
		TopK:           topK,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QueryResponse{Results: results})
}

func (s *Server) listResumes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := s.svc.List(c.Query("contains"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Resumes: entries, Count: len(entries)})
}

func (s *Server) health(c *gin.Context) {
	st := s.svc.Stats()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Documents: st.Documents,
		Dimension: st.Dimension,
	})
}
