package http

import (
	"time"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

// reviewRow is one table row of a review page
type reviewRow struct {
	ID              string
	DisplayID       string
	Employee        string
	Description     string
	Detail          string
	Amount          float64
	Status          string
	RejectionReason string
	CreatedAt       time.Time
}

// reviewView is the HTML data of a review page
type reviewView struct {
	Review workflow.Review
	Rows   []reviewRow
	Stats  service.ReviewStats
}

func newReviewView[T entity.Reviewable](review workflow.Review, queue *service.ReviewQueue[T]) reviewView {
	view := reviewView{Review: review, Stats: queue.Stats}
	for _, rec := range queue.Records {
		row := reviewRow{
			ID:     rec.RecordID(),
			Amount: rec.ClaimedAmount(),
			Status: rec.StatusValue(),
		}
		switch r := any(rec).(type) {
		case entity.Claim:
			row.DisplayID = r.DisplayID()
			row.Employee = r.Employee.EmployeeDisplay()
			row.Description = r.Description
			row.Detail = r.ClaimType
			row.RejectionReason = r.RejectionReason
			row.CreatedAt = r.CreatedAt
		case entity.Dispute:
			row.DisplayID = r.DisplayID()
			row.Employee = r.Employee.EmployeeDisplay()
			row.Description = r.Description
			row.Detail = r.PayslipID.String()
			row.RejectionReason = r.RejectionReason
			row.CreatedAt = r.CreatedAt
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// registerReview mounts the list, approve and reject routes of one review page
func registerReview[T entity.Reviewable](group *gin.RouterGroup, e endpoint, svc service.ReviewService[T]) {
	if svc == nil {
		return
	}
	review := svc.Review()
	path := review.Page().Path

	group.GET(path, func(c *gin.Context) {
		page, identity, ok := e.gate(c, review.PageKey)
		if !ok {
			return
		}
		queue, err := svc.Queue(c.Request.Context())
		if err != nil {
			e.fail(c, page, err)
			return
		}
		if e.api {
			e.render(c, page, identity, "", queue)
			return
		}
		e.render(c, page, identity, "review.html", newReviewView(review, queue))
	})

	group.POST(path+"/:id/approve", func(c *gin.Context) {
		page, _, ok := e.gate(c, review.PageKey)
		if !ok {
			return
		}
		var in service.ApproveInput
		if !e.bind(c, page, &in) {
			return
		}
		id := c.Param("id")
		res, err := svc.Approve(c.Request.Context(), id, in)
		e.finish(c, page, res, err, modal("approve", id), reloader(svc.Queue))
	})

	group.POST(path+"/:id/reject", func(c *gin.Context) {
		page, _, ok := e.gate(c, review.PageKey)
		if !ok {
			return
		}
		var in service.RejectInput
		if !e.bind(c, page, &in) {
			return
		}
		id := c.Param("id")
		res, err := svc.Reject(c.Request.Context(), id, in)
		e.finish(c, page, res, err, modal("reject", id), reloader(svc.Queue))
	})
}
