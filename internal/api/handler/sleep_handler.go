package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/pkg/response"
)

// sleepRecordView is the wire form of a record; duration fields are null while in progress.
type sleepRecordView struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out"`
	DurationSeconds *int64     `json:"duration_seconds"`
	DurationHours   *float64   `json:"duration_hours"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type clockResponse struct {
	Message      string            `json:"message" example:"Clocked in"`
	SleepRecords []sleepRecordView `json:"sleep_records"`
}

func newSleepRecordView(r *model.SleepRecord) sleepRecordView {
	v := sleepRecordView{
		ID:        r.ID,
		UserID:    r.UserID,
		ClockIn:   r.ClockIn,
		ClockOut:  r.ClockOut,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if secs, ok := r.DurationSeconds(); ok {
		hours, _ := r.DurationHours()
		v.DurationSeconds = &secs
		v.DurationHours = &hours
	}
	return v
}

// Clock 打卡：无进行中记录则入睡，否则起床
// @Summary 切换睡眠状态
// @Tags 睡眠
// @Produce json
// @Security BearerAuth
// @Success 200 {object} clockResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorsBody
// @Router /api/v1/sleep_records [post]
func (h *Handler) Clock(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	res, err := h.sleepService.Clock(c.Request.Context(), u)
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]sleepRecordView, len(res.History))
	for i, r := range res.History {
		views[i] = newSleepRecordView(r)
	}
	response.Success(c, clockResponse{Message: res.Message, SleepRecords: views})
}

// Feed 关注人近一周的睡眠记录
// @Summary 关注人睡眠排行
// @Description 关注人过去 7 天内创建且已完成的记录，按时长降序
// @Tags 睡眠
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.FeedEntry
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/sleep_records [get]
func (h *Handler) Feed(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	entries, err := h.feedService.FollowingFeed(c.Request.Context(), u)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, entries)
}
