package services

import (
	"context"
	"errors"
	"testing"

	"signage/models"
)

func TestApproveResolvesPendingOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, NewAnswerService(db))

	pending, err := svc.RequestEnrollment("SN-100", "lobby kiosk")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if pending.Status != models.PendingDeviceWaiting {
		t.Fatalf("expected PENDING, got %s", pending.Status)
	}
	if pending.EnrollmentToken == "" {
		t.Fatal("expected an enrollment token")
	}

	approved, err := svc.Approve(pending.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.PendingDeviceApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	// The request is resolved; approving again is an error.
	if _, err := svc.Approve(pending.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error on double approve, got %v", err)
	}
}

func TestClaimNeedsApprovalAndToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, NewAnswerService(db))

	pending, err := svc.RequestEnrollment("SN-104", "lobby kiosk")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// Not approved yet.
	if _, _, err := svc.Claim("SN-104", pending.EnrollmentToken); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden before approval, got %v", err)
	}

	if _, err := svc.Approve(pending.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// The token handed out at intake is the only credential that works.
	if _, _, err := svc.Claim("SN-104", "wrong-token"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for a wrong token, got %v", err)
	}
	if _, _, err := svc.Claim("SN-104", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for an empty token, got %v", err)
	}
	if _, _, err := svc.Claim("SN-999", pending.EnrollmentToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for an unknown serial, got %v", err)
	}

	device, key, err := svc.Claim("SN-104", pending.EnrollmentToken)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if key == "" {
		t.Fatal("expected the private key in the claim response")
	}
	if len(device.PublicKey) == 0 {
		t.Fatal("expected the public key to be stored")
	}

	// The key leaves the server once; a second claim is refused.
	if _, _, err := svc.Claim("SN-104", pending.EnrollmentToken); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden on a second claim, got %v", err)
	}
}

func TestClaimRejectedRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, NewAnswerService(db))

	pending, _ := svc.RequestEnrollment("SN-105", "")
	if err := svc.Reject(pending.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, _, err := svc.Claim("SN-105", pending.EnrollmentToken); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for a rejected request, got %v", err)
	}
}

func TestRejectPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, NewAnswerService(db))

	pending, _ := svc.RequestEnrollment("SN-101", "")
	if err := svc.Reject(pending.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := svc.Reject(pending.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error on double reject, got %v", err)
	}
}

func TestDuplicateSerialRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, NewAnswerService(db))

	if _, err := svc.RequestEnrollment("SN-102", ""); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.RequestEnrollment("SN-102", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for duplicate serial, got %v", err)
	}
}

func TestDeleteDeviceKeepsAnswers(t *testing.T) {
	db := newTestDB(t)
	answers := NewAnswerService(db)
	svc := NewDeviceService(db, answers)

	device, _ := provisionDevice(t, db, "SN-103")
	survey := createApprovedSurvey(t, db, "feedback")
	page, _ := createQuestionPage(t, db, survey.ID, models.QuestionFreetext)

	answer, err := answers.Submit(context.Background(), device.ID, page.ID, AnswerSubmission{Answer: "all good"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Delete(device.ID); err != nil {
		t.Fatalf("delete device: %v", err)
	}

	if _, err := svc.Find(device.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected device gone, got %v", err)
	}

	kept, err := answers.ListByPage(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(kept) != 1 || kept[0].ID != answer.ID {
		t.Fatalf("expected the answer to survive device deletion, got %+v", kept)
	}
	if kept[0].DeviceID != nil {
		t.Fatalf("expected device reference cleared, got %v", *kept[0].DeviceID)
	}
}
