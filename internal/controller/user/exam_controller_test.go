package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cbt-saw/internal/controller"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/service"
)

type stubFinalizer struct {
	err      error
	gotUID   string
	gotExam  uint
	gotAttID uint
}

func (s *stubFinalizer) FinalizeAttempt(_ context.Context, attemptID uint, userUID string, examID uint) (*dto.FinalizeResultDTO, error) {
	s.gotAttID, s.gotUID, s.gotExam = attemptID, userUID, examID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FinalizeResultDTO{AttemptID: attemptID, ExamID: examID, UserUID: userUID}, nil
}

type stubRanking struct{ resp *dto.RankingDTO }

func (s *stubRanking) GetRanking(_ context.Context, examID uint) (*dto.RankingDTO, error) {
	s.resp.ExamID = examID
	return s.resp, nil
}

type stubResults struct {
	gotRole     string
	gotFeedback bool
}

func (s *stubResults) GetResult(_ context.Context, attemptID uint, requesterUID, requesterRole string, withFeedback bool) (*dto.ExamResultDTO, error) {
	s.gotRole, s.gotFeedback = requesterRole, withFeedback
	if requesterRole == service.RoleSiswa && requesterUID != "uid-1" {
		return nil, &service.Error{Kind: service.KindForbidden, Message: "you may only view your own results"}
	}
	return &dto.ExamResultDTO{AttemptID: attemptID, UserUID: "uid-1", Answers: []dto.AnswerDetailDTO{}}, nil
}

func newTestRouter(fin service.AttemptFinalizerService, rank service.RankingService, res service.ResultService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(controller.RequestID())
	NewExamController(nil, fin, rank, res).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func perform(r http.Handler, method, path, uid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set(controller.HeaderUserUID, uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestFinishExamMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		retryAfter bool
	}{
		{"success", nil, http.StatusOK, "", false},
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "attempt 7 not found"}, http.StatusNotFound, "not_found", false},
		{"already finalized", &service.Error{Kind: service.KindAlreadyFinalized, Message: "attempt 7 is already finalized"}, http.StatusConflict, "already_finalized", false},
		{"invalid state", &service.Error{Kind: service.KindInvalidState}, http.StatusUnprocessableEntity, "invalid_state", false},
		{"threshold table missing", &service.Error{Kind: service.KindThresholdTableMissing}, http.StatusInternalServerError, "threshold_table_missing", false},
		{"store down", &service.Error{Kind: service.KindDependencyUnavailable, Err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "dependency_unavailable", true},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fin := &stubFinalizer{err: tt.err}
			r := newTestRouter(fin, nil, nil)

			w := perform(r, http.MethodPost, "/api/v1/student/exam/finish", "uid-1", `{"attempt_id":7,"exam_id":3}`)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := w.Header().Get("Retry-After") != ""; got != tt.retryAfter {
				t.Errorf("Retry-After present = %v, want %v", got, tt.retryAfter)
			}
			if w.Header().Get(controller.HeaderRequestID) == "" {
				t.Error("missing request id header")
			}
			if tt.err == nil {
				if fin.gotAttID != 7 || fin.gotExam != 3 || fin.gotUID != "uid-1" {
					t.Errorf("service called with attempt %d exam %d uid %q", fin.gotAttID, fin.gotExam, fin.gotUID)
				}
				return
			}
			resp := decodeError(t, w)
			if resp.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", resp.Kind, tt.wantKind)
			}
			if resp.Retryable != tt.retryAfter {
				t.Errorf("retryable = %v", resp.Retryable)
			}
		})
	}
}

func TestFinishExamRejectsBadInput(t *testing.T) {
	r := newTestRouter(&stubFinalizer{}, nil, nil)

	if w := perform(r, http.MethodPost, "/api/v1/student/exam/finish", "", `{"attempt_id":7,"exam_id":3}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing uid: status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/student/exam/finish", "uid-1", `{"attempt_id":7}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing exam_id: status = %d", w.Code)
	}
}

func TestGetRankingRoute(t *testing.T) {
	rank := &stubRanking{resp: &dto.RankingDTO{Status: dto.RankingStatusNoData, Entries: []dto.RankingEntryDTO{}}}
	r := newTestRouter(nil, rank, nil)

	w := perform(r, http.MethodGet, "/api/v1/student/exam/12/ranking", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got dto.RankingDTO
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ExamID != 12 || got.Status != dto.RankingStatusNoData || got.Entries == nil {
		t.Errorf("ranking = %+v", got)
	}

	if w := perform(r, http.MethodGet, "/api/v1/student/exam/abc/ranking", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric exam id: status = %d", w.Code)
	}
}

func TestGetResultRoute(t *testing.T) {
	res := &stubResults{}
	r := newTestRouter(nil, nil, res)

	w := perform(r, http.MethodGet, "/api/v1/exam/result/5?with_feedback=true", "uid-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	if res.gotRole != service.RoleSiswa || !res.gotFeedback {
		t.Errorf("role %q feedback %v", res.gotRole, res.gotFeedback)
	}

	if w := perform(r, http.MethodGet, "/api/v1/exam/result/5", "uid-2", ""); w.Code != http.StatusForbidden {
		t.Errorf("other participant: status = %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/api/v1/exam/result/5?with_feedback=maybe", "uid-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad with_feedback: status = %d", w.Code)
	}
}
