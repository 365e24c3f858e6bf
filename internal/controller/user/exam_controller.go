package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cbt-saw/internal/controller"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	sessionService   service.ExamSessionService
	finalizerService service.AttemptFinalizerService
	rankingService   service.RankingService
	resultService    service.ResultService
}

func NewExamController(
	sessionService service.ExamSessionService,
	finalizerService service.AttemptFinalizerService,
	rankingService service.RankingService,
	resultService service.ResultService,
) *ExamController {
	return &ExamController{
		sessionService:   sessionService,
		finalizerService: finalizerService,
		rankingService:   rankingService,
		resultService:    resultService,
	}
}

// RegisterRoutes mounts the participant routes under /api/v1.
func (c *ExamController) RegisterRoutes(api *gin.RouterGroup) {
	student := api.Group("/student/exam")
	student.POST("/start", c.StartExam)
	student.POST("/answer", c.SubmitAnswer)
	student.POST("/finish", c.FinishExam)
	student.GET("/:exam_id/questions", c.GetExamQuestions)
	student.GET("/:exam_id/status", c.GetExamStatus)
	student.GET("/:exam_id/ranking", c.GetRanking)

	api.GET("/exam/result/:attempt_id", c.GetResult)
}

// StartExam godoc
// @Summary (Student) Start or resume an exam attempt
// @Tags Student - Exam
// @Accept json
// @Produce json
// @Param X-User-UID header string true "Participant UID"
// @Param request body dto.StartExamRequest true "Exam to start"
// @Success 201 {object} dto.StartAttemptDTO "New attempt"
// @Success 200 {object} dto.StartAttemptDTO "Resumed attempt"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 422 {object} dto.ErrorResponse "Exam not active"
// @Router /student/exam/start [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	uid, ok := controller.RequesterUID(ctx)
	if !ok {
		return
	}
	var req dto.StartExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.sessionService.StartAttempt(ctx.Request.Context(), req.ExamID, uid)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	status := http.StatusCreated
	if resp.Resumed {
		status = http.StatusOK
	}
	ctx.JSON(status, resp)
}

// GetExamQuestions godoc
// @Summary (Student) List the questions of an exam
// @Description Options never carry their correctness.
// @Tags Student - Exam
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamQuestionsDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /student/exam/{exam_id}/questions [get]
func (c *ExamController) GetExamQuestions(ctx *gin.Context) {
	examID, ok := controller.UintParam(ctx, "exam_id")
	if !ok {
		return
	}
	resp, err := c.sessionService.GetExamQuestions(ctx.Request.Context(), examID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary (Student) Save the answer to one question
// @Description Overwrites an earlier answer to the same question while the attempt is open.
// @Tags Student - Exam
// @Accept json
// @Produce json
// @Param X-User-UID header string true "Participant UID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.SavedAnswerDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Attempt already finished"
// @Router /student/exam/answer [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	uid, ok := controller.RequesterUID(ctx)
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.sessionService.SubmitAnswer(ctx.Request.Context(), uid, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// FinishExam godoc
// @Summary (Student) Finish an attempt and compute its SAW score
// @Description Runs only once per attempt; later calls answer 409.
// @Tags Student - Exam
// @Accept json
// @Produce json
// @Param X-User-UID header string true "Participant UID"
// @Param request body dto.FinishExamRequest true "Attempt to finish"
// @Success 200 {object} dto.FinalizeResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already finalized"
// @Failure 500 {object} dto.ErrorResponse "Threshold table missing"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable, retry later"
// @Router /student/exam/finish [post]
func (c *ExamController) FinishExam(ctx *gin.Context) {
	uid, ok := controller.RequesterUID(ctx)
	if !ok {
		return
	}
	var req dto.FinishExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.finalizerService.FinalizeAttempt(ctx.Request.Context(), req.AttemptID, uid, req.ExamID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetExamStatus godoc
// @Summary (Student) Attempt status of the caller for an exam
// @Tags Student - Exam
// @Produce json
// @Param X-User-UID header string true "Participant UID"
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamStatusDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /student/exam/{exam_id}/status [get]
func (c *ExamController) GetExamStatus(ctx *gin.Context) {
	uid, ok := controller.RequesterUID(ctx)
	if !ok {
		return
	}
	examID, ok := controller.UintParam(ctx, "exam_id")
	if !ok {
		return
	}
	resp, err := c.sessionService.GetExamStatus(ctx.Request.Context(), examID, uid)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetRanking godoc
// @Summary Ranking of an exam
// @Description Competition ranking by converted score. An exam nobody has finished returns status no_data.
// @Tags Student - Exam
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.RankingDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /student/exam/{exam_id}/ranking [get]
func (c *ExamController) GetRanking(ctx *gin.Context) {
	examID, ok := controller.UintParam(ctx, "exam_id")
	if !ok {
		return
	}
	resp, err := c.rankingService.GetRanking(ctx.Request.Context(), examID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetResult godoc
// @Summary Detailed result of one attempt
// @Description Participants may only read their own attempts. Score sections are null until the attempt is finished.
// @Tags Student - Exam
// @Produce json
// @Param X-User-UID header string true "Requester UID"
// @Param X-User-Role header string false "Requester role, defaults to siswa"
// @Param attempt_id path int true "Attempt ID"
// @Param with_feedback query bool false "Ask for a generated feedback paragraph"
// @Success 200 {object} dto.ExamResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exam/result/{attempt_id} [get]
func (c *ExamController) GetResult(ctx *gin.Context) {
	uid, ok := controller.RequesterUID(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.UintParam(ctx, "attempt_id")
	if !ok {
		return
	}

	withFeedback := false
	if raw := ctx.Query("with_feedback"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			controller.BadRequest(ctx, "Invalid with_feedback value", err)
			return
		}
		withFeedback = v
	}

	resp, err := c.resultService.GetResult(ctx.Request.Context(), attemptID, uid, controller.RequesterRole(ctx), withFeedback)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Debug().Uint("attemptID", attemptID).Bool("finished", resp.FinishedAt != nil).Msg("GetResult: served")
	ctx.JSON(http.StatusOK, resp)
}
