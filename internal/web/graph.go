package web

import (
	"io"
	"net/http"
	"strings"

	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/ingest"
	"spatial-notepad/internal/logging"
	"spatial-notepad/internal/mindmap"
	"spatial-notepad/internal/model"
)

type graphResponse struct {
	Nodes   []model.Node         `json:"nodes"`
	Edges   []model.Edge         `json:"edges"`
	History canvas.HistoryStatus `json:"history"`
}

func (s *Server) graphLocked() graphResponse {
	return graphResponse{Nodes: s.canvas.Nodes(), Edges: s.canvas.Edges(), History: s.canvas.HistoryStatus()}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.graphLocked())
}

type nodeCreateRequest struct {
	Type        string         `json:"type"`
	Position    model.Position `json:"position"`
	Size        *model.Size    `json:"size"`
	Data        model.NodeData `json:"data"`
	SkipHistory bool           `json:"skipHistory"`
}

func (s *Server) handleNodeCreate(w http.ResponseWriter, r *http.Request) {
	var req nodeCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.canvas.AddNode(strings.TrimSpace(req.Type), req.Position, req.Data, canvas.AddNodeOpts{Size: req.Size, SkipHistory: req.SkipHistory})
	n, _ := s.canvas.Node(id)
	writeJSON(w, http.StatusCreated, n)
}

// nodeLocked resolves the {nodeId} path value or writes a 404.
func (s *Server) nodeLocked(w http.ResponseWriter, r *http.Request) (model.Node, bool) {
	id := strings.TrimSpace(r.PathValue("nodeId"))
	n, ok := s.canvas.Node(id)
	if !ok {
		writeError(w, errNotFound("node", id))
		return model.Node{}, false
	}
	return n, true
}

func (s *Server) handleNodeGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nodeWithChildren{Node: n, Children: childIDs(s.canvas.Children(n.ID))})
}

type nodeWithChildren struct {
	model.Node
	Children []string `json:"children"`
}

func childIDs(nodes []model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

type nodeUpdateRequest struct {
	Data        model.DataPatch `json:"data"`
	SkipHistory bool            `json:"skipHistory"`
}

func (s *Server) handleNodeUpdate(w http.ResponseWriter, r *http.Request) {
	var req nodeUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.UpdateNodeData(n.ID, req.Data, req.SkipHistory)
	n, _ = s.canvas.Node(n.ID)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleNodeDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.DeleteNode(n.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNodeMove(w http.ResponseWriter, r *http.Request) {
	var pos model.Position
	if err := decodeBody(r, &pos); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.MoveNode(n.ID, pos)
	n, _ = s.canvas.Node(n.ID)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleNodeResize(w http.ResponseWriter, r *http.Request) {
	var size model.Size
	if err := decodeBody(r, &size); err != nil {
		writeError(w, err)
		return
	}
	if size.Width <= 0 || size.Height <= 0 {
		writeError(w, badRequestError{msg: "width and height must be positive"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.ResizeNode(n.ID, size)
	n, _ = s.canvas.Node(n.ID)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleNodeBranch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	childID, _ := s.canvas.AddBranch(n.ID)
	child, _ := s.canvas.Node(childID)
	writeJSON(w, http.StatusCreated, child)
}

type mindMapRequest struct {
	Mode string `json:"mode"`
}

func parseMode(s string) (mindmap.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shallow":
		return mindmap.Shallow, nil
	case "deep":
		return mindmap.Deep, nil
	default:
		return 0, badRequestError{msg: "invalid mode (expected shallow|deep)"}
	}
}

func (s *Server) handleNodeMindMap(w http.ResponseWriter, r *http.Request) {
	var req mindMapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	res, _ := s.decomposer.Decompose(n.ID, mode)
	if res.NodeIDs == nil {
		res.NodeIDs = []string{}
	}
	if res.EdgeIDs == nil {
		res.EdgeIDs = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleNodeDocument attaches the raw request body as a document named by the
// "name" query parameter.
func (s *Server) handleNodeDocument(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, badRequestError{msg: "missing name"})
		return
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, badRequestError{msg: "read body: " + err.Error()})
		return
	}
	doc, err := ingest.Bytes(name, b)
	if err != nil {
		logging.FromContext(r.Context()).Warn("ingest document", "name", name, "err", err)
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.UpdateNodeData(n.ID, doc.Patch(), false)
	n, _ = s.canvas.Node(n.ID)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleEditBegin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.BeginEdit(n.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"editing": true})
}

func (s *Server) handleEditEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodeLocked(w, r)
	if !ok {
		return
	}
	s.canvas.EndEdit(n.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"editing": false})
}

type edgeCreateRequest struct {
	model.Edge
	SkipHistory bool `json:"skipHistory"`
}

func (s *Server) handleEdgeCreate(w http.ResponseWriter, r *http.Request) {
	var req edgeCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range []string{req.Source, req.Target} {
		if _, ok := s.canvas.Node(id); !ok {
			writeError(w, errNotFound("node", id))
			return
		}
	}
	s.canvas.AddEdge(req.Edge, req.SkipHistory)
	edges := s.canvas.Edges()
	writeJSON(w, http.StatusCreated, edges[len(edges)-1])
}

func (s *Server) handleEdgeDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("edgeId"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canvas.RemoveEdge(id) {
		writeError(w, errNotFound("edge", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Applied bool                 `json:"applied"`
	History canvas.HistoryStatus `json:"history"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.canvas.HistoryStatus())
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.canvas.Undo()
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, History: s.canvas.HistoryStatus()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.canvas.Redo()
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, History: s.canvas.HistoryStatus()})
}

func (s *Server) handleHistoryPush(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.PushHistory()
	writeJSON(w, http.StatusOK, historyResponse{Applied: true, History: s.canvas.HistoryStatus()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.ClearCanvas()
	writeJSON(w, http.StatusOK, s.graphLocked())
}
