package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cbt-saw/internal/controller"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/service"
)

type stubScoringConfig struct{ calls int }

func (s *stubScoringConfig) GetScoringConfig(context.Context) (*dto.ScoringConfigDTO, error) {
	s.calls++
	return &dto.ScoringConfigDTO{W1: 0.4, W2: 0.3, W3: 0.2, W4: 0.1, Tables: []dto.ThresholdTableDTO{}}, nil
}

func TestScoringConfigRequiresAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin", service.RoleAdmin, http.StatusOK},
		{"participant", service.RoleSiswa, http.StatusForbidden},
		{"no role header", "", http.StatusForbidden},
		{"other role", "guru", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubScoringConfig{}
			r := gin.New()
			NewScoringController(svc).RegisterRoutes(r.Group("/api/v1/admin"))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/scoring/config", nil)
			if tt.role != "" {
				req.Header.Set(controller.HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			wantCalls := 0
			if tt.wantStatus == http.StatusOK {
				wantCalls = 1
			}
			if svc.calls != wantCalls {
				t.Errorf("service calls = %d, want %d", svc.calls, wantCalls)
			}
		})
	}
}
