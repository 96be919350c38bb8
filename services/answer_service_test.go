package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"signage/models"
)

func TestSubmitFreetext(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-400")
	survey := createApprovedSurvey(t, db, "s")
	page, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)

	answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{Answer: "  verbatim, spaces kept  "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answer.Type != models.QuestionFreetext {
		t.Fatalf("expected FREETEXT answer, got %s", answer.Type)
	}
	if answer.Text == nil || *answer.Text != "  verbatim, spaces kept  " {
		t.Fatalf("freetext must be stored verbatim, got %v", answer.Text)
	}
	if answer.DeviceID == nil || *answer.DeviceID != device.ID {
		t.Fatalf("expected device reference %d, got %v", device.ID, answer.DeviceID)
	}
}

func TestSubmitSingleSelect(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-401")
	survey := createApprovedSurvey(t, db, "s")
	page, options := createQuestionPage(t, db, survey.ID, models.QuestionSingleSelect, "yes", "no")

	answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer: fmt.Sprintf("%d", options[1].ID),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answer.SelectedOptionID == nil || *answer.SelectedOptionID != options[1].ID {
		t.Fatalf("expected option %d selected, got %v", options[1].ID, answer.SelectedOptionID)
	}

	if _, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{Answer: "not-a-number"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for malformed option id, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{Answer: "99999"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown option, got %v", err)
	}
}

func TestSubmitMultiSelect(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-402")
	survey := createApprovedSurvey(t, db, "s")
	page, options := createQuestionPage(t, db, survey.ID, models.QuestionMultiSelect, "red", "green", "blue")

	answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer: fmt.Sprintf("%d,%d", options[0].ID, options[2].ID),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(answer.Options) != 2 {
		t.Fatalf("expected 2 option rows, got %d", len(answer.Options))
	}
	if answer.Options[0].OptionID != options[0].ID || answer.Options[1].OptionID != options[2].ID {
		t.Fatalf("option rows wrong: %+v", answer.Options)
	}
}

func TestSubmitMultiSelectFailsWholeSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-403")
	survey := createApprovedSurvey(t, db, "s")
	page, options := createQuestionPage(t, db, survey.ID, models.QuestionMultiSelect, "a", "b", "c")

	raw := fmt.Sprintf("%d,%d,99999,%d", options[0].ID, options[1].ID, options[2].ID)
	if _, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{Answer: raw}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// No partial row, no partial join rows.
	var answers, joins int64
	db.Model(&models.PageAnswer{}).Where("page_id = ?", page.ID).Count(&answers)
	db.Model(&models.AnswerOption{}).Count(&joins)
	if answers != 0 || joins != 0 {
		t.Fatalf("expected nothing persisted, got %d answers and %d join rows", answers, joins)
	}
}

func TestSubmitIdempotentResubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-404")
	survey := createApprovedSurvey(t, db, "s")
	page, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)

	first, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer:       "original",
		SubmissionID: "sub-1",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Retransmission with a different payload: the stored answer wins.
	second, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer:       "changed payload",
		SubmissionID: "sub-1",
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same answer row, got %d and %d", first.ID, second.ID)
	}
	if second.Text == nil || *second.Text != "original" {
		t.Fatalf("retransmission must not change the stored answer, got %v", second.Text)
	}

	var count int64
	db.Model(&models.PageAnswer{}).Where("page_id = ?", page.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one stored row, got %d", count)
	}

	// The same submission id on another page is a different submission.
	otherPage, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)
	third, err := svc.Submit(context.Background(), device.ID, otherPage.ID, AnswerSubmission{
		Answer:       "other page",
		SubmissionID: "sub-1",
	})
	if err != nil {
		t.Fatalf("third submit: %v", err)
	}
	if third.ID == first.ID {
		t.Fatal("submission key must scope to device and page")
	}
}

func TestSubmitConcurrentRetransmissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-408")
	survey := createApprovedSurvey(t, db, "s")
	page, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)

	// A flaky uplink retransmits the same submission from several workers
	// at once; they must all converge on a single stored answer.
	const workers = 16
	var (
		wg    sync.WaitGroup
		ids   [workers]uint
		errs  [workers]error
		start = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
				Answer:       "same payload",
				SubmissionID: "sub-race",
			})
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = answer.ID
		}(i)
	}
	close(start)
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
	}
	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("workers got different answer ids: %d and %d", ids[0], ids[i])
		}
	}

	var count int64
	db.Model(&models.PageAnswer{}).Where("page_id = ?", page.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one stored row, got %d", count)
	}
}

func TestSubmitClientTimestamp(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-405")
	survey := createApprovedSurvey(t, db, "s")
	page, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)

	epoch := time.Now().Add(-48 * time.Hour).Unix()
	answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer:          "late upload",
		ClientTimestamp: &epoch,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answer.CreatedAt.Unix() != epoch {
		t.Fatalf("expected creation time %d, got %d", epoch, answer.CreatedAt.Unix())
	}
}

func TestSubmitPageValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-406")
	survey := createApprovedSurvey(t, db, "s")

	if _, err := svc.Submit(context.Background(), device.ID, 9999, AnswerSubmission{Answer: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown page, got %v", err)
	}

	bare := &models.Page{SurveyID: survey.ID, Title: "no question"}
	if err := db.Create(bare).Error; err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := svc.Submit(context.Background(), device.ID, bare.ID, AnswerSubmission{Answer: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for question-less page, got %v", err)
	}
}

func TestDeleteMultiSelectRemovesJoinRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(db)

	device, _ := provisionDevice(t, db, "SN-407")
	survey := createApprovedSurvey(t, db, "s")
	page, options := createQuestionPage(t, db, survey.ID, models.QuestionMultiSelect, "x", "y")

	answer, err := svc.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{
		Answer: fmt.Sprintf("%d,%d", options[0].ID, options[1].ID),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Delete(context.Background(), answer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var answers, joins int64
	db.Model(&models.PageAnswer{}).Count(&answers)
	db.Model(&models.AnswerOption{}).Count(&joins)
	if answers != 0 || joins != 0 {
		t.Fatalf("expected full cleanup, got %d answers and %d join rows", answers, joins)
	}

	if err := svc.Delete(context.Background(), answer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
