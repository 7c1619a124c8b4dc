package usecase_test

import (
	"context"
	"testing"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/repository"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
	"github.com/m-mizutani/gt"
	slackapi "github.com/slack-go/slack"
)

type slackClientMock struct {
	channels []string
	options  [][]slackapi.MsgOption
}

func (m *slackClientMock) PostMessage(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	return channelID, "1734595200.000100", nil
}

func (m *slackClientMock) AuthTestContext(ctx context.Context) (*slackapi.AuthTestResponse, error) {
	return &slackapi.AuthTestResponse{UserID: "U123456"}, nil
}

func TestNewReport(t *testing.T) {
	repo := repository.NewMemory()
	board := usecase.NewBoard(repo, nil)

	t.Run("requires slack client", func(t *testing.T) {
		_, err := usecase.NewReport(board, nil, nil, "C123")
		gt.Error(t, err)
	})

	t.Run("requires channel", func(t *testing.T) {
		_, err := usecase.NewReport(board, &slackClientMock{}, nil, "")
		gt.Error(t, err)
	})
}

func TestReportPost(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	board := usecase.NewBoard(repo, nil)
	gt.NoError(t, board.Reload(ctx, fixtureRecords()))

	mock := &slackClientMock{}
	report := gt.R1(usecase.NewReport(board, mock, nil, "C123")).NoError(t)

	gt.NoError(t, report.Post(ctx, model.NewFilterSpec(), nil))
	gt.A(t, mock.channels).Length(1)
	gt.Equal(t, mock.channels[0], "C123")
}

func TestReportPostInvalidSpec(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	board := usecase.NewBoard(repo, nil)
	gt.NoError(t, board.Reload(ctx, fixtureRecords()))

	mock := &slackClientMock{}
	report := gt.R1(usecase.NewReport(board, mock, nil, "C123")).NoError(t)

	spec := model.NewFilterSpec()
	spec.Branches = model.Select()
	gt.Error(t, report.Post(ctx, spec, nil))
	gt.A(t, mock.channels).Length(0)
}
