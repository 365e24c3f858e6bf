package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cbt-saw/internal/controller"
	"github.com/lshigami/cbt-saw/internal/service"
)

type ScoringController struct {
	scoringConfigService service.ScoringConfigService
}

func NewScoringController(scoringConfigService service.ScoringConfigService) *ScoringController {
	return &ScoringController{scoringConfigService: scoringConfigService}
}

// RegisterRoutes mounts the admin routes under /api/v1/admin. Only the admin
// role may call them.
func (c *ScoringController) RegisterRoutes(admin *gin.RouterGroup) {
	admin.Use(controller.RequireRole(service.RoleAdmin))
	admin.GET("/scoring/config", c.GetScoringConfig)
}

// GetScoringConfig godoc
// @Summary (Admin) Active SAW weights and threshold tables
// @Description Read-only view of the weighting scheme and the four criterion tables. Criteria without rows are listed under incomplete.
// @Tags Admin - Scoring
// @Produce json
// @Param X-User-Role header string true "Must be admin"
// @Success 200 {object} dto.ScoringConfigDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /admin/scoring/config [get]
func (c *ScoringController) GetScoringConfig(ctx *gin.Context) {
	resp, err := c.scoringConfigService.GetScoringConfig(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
