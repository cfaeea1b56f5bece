package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/markdown"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// Content types per output format.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type issueJSON struct {
	Kind    circuit.IssueKind `json:"kind"`
	Subject string            `json:"subject"`
	Detail  string            `json:"detail,omitempty"`
}

type layoutResponse struct {
	Diagram    *circuit.Diagram `json:"diagram"`
	Issues     []issueJSON      `json:"issues"`
	SourceHash string           `json:"sourceHash"`
	Cached     bool             `json:"cached"`
}

type blockResponse struct {
	Index  int         `json:"index"`
	Line   int         `json:"line"`
	Lang   string      `json:"lang"`
	SVG    string      `json:"svg"`
	Error  string      `json:"error,omitempty"`
	Issues []issueJSON `json:"issues,omitempty"`
}

type markdownResponse struct {
	Blocks []blockResponse `json:"blocks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cfg, ok := s.decodeBody(w, r)
	if !ok {
		return
	}

	d, issues, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), cfg, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Diagram:    d,
		Issues:     toIssueJSON(issues),
		SourceHash: pipeline.SourceHash(cfg),
		Cached:     hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	cfg, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Execute(r.Context(), cfg, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.Header().Set("X-Source-Hash", res.SourceHash)
	w.Header().Set("X-Issues", strconv.Itoa(len(res.Issues)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	page, ok := s.readBody(w, r)
	if !ok {
		return
	}
	results := s.runner.ExecuteAll(r.Context(), markdown.Extract(page), opts)

	resp := markdownResponse{Blocks: make([]blockResponse, 0, len(results))}
	for _, br := range results {
		b := blockResponse{Index: br.Block.Index, Line: br.Block.Line, Lang: br.Block.Lang}
		if br.Err != nil {
			b.Error = errors.UserMessage(br.Err)
			b.SVG = string(br.Panel)
		} else {
			b.SVG = string(br.Result.Artifacts[pipeline.FormatSVG])
			b.Issues = toIssueJSON(br.Result.Issues)
		}
		resp.Blocks = append(resp.Blocks, b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// options builds pipeline options from the server defaults and the query.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	if v := q.Get("strategy"); v != "" {
		opts.Strategy = v
	}
	if v := q.Get("theme"); v != "" {
		opts.Theme = v
	}
	if v := q.Get("legend"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid legend %q", v)
		}
		opts.Legend = b
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid refresh %q", v)
		}
		opts.Refresh = b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v)
		}
		opts.Scale = f
	}
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return nil, false
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}
	return data, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (circuit.Config, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return circuit.Config{}, false
	}
	cfg, err := pipeline.Parse(data)
	if err != nil {
		s.fail(w, r, err)
		return circuit.Config{}, false
	}
	return cfg, true
}

// fail maps a pipeline error onto its HTTP status. Server-side failures are
// logged; client errors are not.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeError(w, r, status, code, errors.UserMessage(err))
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.RequestID = RequestID(r.Context())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toIssueJSON(issues []circuit.Issue) []issueJSON {
	out := make([]issueJSON, 0, len(issues))
	for _, is := range issues {
		out = append(out, issueJSON{Kind: is.Kind, Subject: is.Subject, Detail: is.Detail})
	}
	return out
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
