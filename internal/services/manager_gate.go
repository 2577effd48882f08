package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
)

// AuthorizationGate answers whether an actor may mutate a stage or a recruitment.
type AuthorizationGate interface {
	CanManageStage(ctx context.Context, actor models.Actor, stage models.Stage) bool
	CanManageRecruitment(ctx context.Context, actor models.Actor, recruitment models.Recruitment) bool
}

// ManagerGate allows superusers and the managers assigned to the stage or its recruitment.
// Stages must carry their managers and their recruitment's managers.
type ManagerGate struct{}

func NewManagerGate() *ManagerGate {
	return &ManagerGate{}
}

func (g *ManagerGate) CanManageStage(_ context.Context, actor models.Actor, stage models.Stage) bool {
	if actor.Superuser || stage.IsManagedBy(actor.EmployeeID) {
		return true
	}
	return stage.Recruitment != nil && stage.Recruitment.IsManagedBy(actor.EmployeeID)
}

func (g *ManagerGate) CanManageRecruitment(_ context.Context, actor models.Actor, recruitment models.Recruitment) bool {
	return actor.Superuser || recruitment.IsManagedBy(actor.EmployeeID)
}
