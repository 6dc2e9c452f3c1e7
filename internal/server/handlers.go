package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amykglen/biolink-explorer/pkg/buildinfo"
	"github.com/amykglen/biolink-explorer/pkg/elements"
	xerrors "github.com/amykglen/biolink-explorer/pkg/errors"
	"github.com/amykglen/biolink-explorer/pkg/hierarchy"
	"github.com/amykglen/biolink-explorer/pkg/registry"
)

// docsBaseURL is where the official model documentation lives; node
// detail responses link each element to its page there.
const docsBaseURL = "https://biolink.github.io/biolink-model/"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	refresh := parseBool(r.URL.Query().Get("refresh"), false)
	versions, err := s.runner.Versions(r.Context(), refresh)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"versions": versions,
		"default":  s.defaultVersion,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	if err := xerrors.ValidateVersion(version); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	kind, err := elements.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeFailure(w, r, xerrors.Wrap(xerrors.ErrCodeInvalidKind, err, "invalid hierarchy kind"))
		return
	}

	q := r.URL.Query()
	opts := hierarchy.FilterOptions{
		Search:        parseList(q["search"]),
		IncludeMixins: parseBool(q.Get("mixins"), true),
		Domains:       parseList(q["domain"]),
		Ranges:        parseList(q["range"]),
	}
	for _, id := range opts.Search {
		if err := xerrors.ValidateNodeID(id); err != nil {
			s.writeFailure(w, r, err)
			return
		}
	}

	result, err := s.load(r.Context(), version, parseBool(q.Get("refresh"), false))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	d := result.Categories
	if kind == elements.KindPredicates {
		d = result.Predicates
	}
	view := hierarchy.Filter(d, result.Categories, opts)

	writeJSON(w, http.StatusOK, map[string]any{
		"version":  result.Version,
		"kind":     kind,
		"elements": elements.FromDAG(d, kind, view),
	})
}

// nodeResponse is the detail-panel payload for one node.
type nodeResponse struct {
	elements.Node
	Parents     []string `json:"parents"`
	Children    []string `json:"children"`
	Ancestors   []string `json:"ancestors"`
	Descendants []string `json:"descendants"`
	DocsURL     string   `json:"docs_url"`
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	if err := xerrors.ValidateVersion(version); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	kind, err := elements.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeFailure(w, r, xerrors.Wrap(xerrors.ErrCodeInvalidKind, err, "invalid hierarchy kind"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := xerrors.ValidateNodeID(id); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	result, err := s.load(r.Context(), version, false)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	d := result.Categories
	if kind == elements.KindPredicates {
		d = result.Predicates
	}
	n, ok := d.Node(id)
	if !ok {
		s.writeFailure(w, r, xerrors.New(xerrors.ErrCodeNodeNotFound, "no %s node %q in %s", kind, id, result.Version))
		return
	}

	single := elements.FromDAG(d, kind, &hierarchy.View{Keep: map[string]bool{id: true}})
	resp := nodeResponse{
		Node:        single.Nodes[0],
		Parents:     sorted(d.Parents(id)),
		Children:    sorted(d.Children(id)),
		Ancestors:   sortedSet(d.Ancestors(id), id),
		Descendants: sortedSet(d.Descendants(id), id),
		DocsURL:     docsBaseURL + n.ID,
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseList flattens repeated query parameters and comma-separated
// values into one list, dropping empties.
func parseList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func sorted(ids []string) []string {
	out := append([]string{}, ids...)
	sort.Strings(out)
	return out
}

// sortedSet flattens a reachability set to a sorted list, excluding the
// seed itself.
func sortedSet(set map[string]bool, exclude string) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		if id != exclude {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeFailure maps an error to an HTTP status and JSON body.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= 500 {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"err", err,
			"request_id", RequestIDFromContext(r.Context()))
	}
	writeError(w, status, string(code), xerrors.UserMessage(err))
}

func classify(err error) (int, xerrors.Code) {
	switch xerrors.GetCode(err) {
	case xerrors.ErrCodeInvalidVersion, xerrors.ErrCodeInvalidKind,
		xerrors.ErrCodeInvalidInput, xerrors.ErrCodeInvalidFilter:
		return http.StatusBadRequest, xerrors.GetCode(err)
	case xerrors.ErrCodeNodeNotFound:
		return http.StatusNotFound, xerrors.ErrCodeNodeNotFound
	}

	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound, xerrors.ErrCodeVersionNotFound
	case errors.Is(err, registry.ErrNetwork):
		return http.StatusBadGateway, xerrors.ErrCodeNetwork
	default:
		return http.StatusInternalServerError, xerrors.ErrCodeInternal
	}
}
