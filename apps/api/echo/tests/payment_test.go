package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
	emailsvc "github.com/darasahq/backend/services/email"
	testutil "github.com/darasahq/backend/tests"
)

func Test_paymentApi_createIntent(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/payments/intent", []byte(`{"salary":120.5}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Salary required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/intent", getToken(student), []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "a non-zero salary is required"}),
		}, rec)
	})

	t.Run("Salary is charged in cents", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/intent", getToken(student), []byte(`{"salary":120.5}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		n := len(processor.Intents)
		if n == 0 {
			t.Fatal("no intent reached the processor")
		}
		intent := processor.Intents[n-1]
		if intent.Amount != 12050 {
			t.Errorf("amount = %d; want 12050", intent.Amount)
		}
		if intent.Currency != "usd" {
			t.Errorf("currency = %s; want usd", intent.Currency)
		}
	})

	t.Run("Processor failure is an upstream error", func(t *testing.T) {
		processor.Fail = true
		defer func() { processor.Fail = false }()

		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/intent", getToken(student), []byte(`{"salary":120.5}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadGateway, rec.Body.String())
		}
	})
}

func Test_paymentApi_hire(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleStudent, user.StatusActive)
	tutor1 := testutil.CreateUser(t, usrRepo, "Tutor1", "tutor1@test.cd", user.RoleTutor, user.StatusActive)
	tutor2 := testutil.CreateUser(t, usrRepo, "Tutor2", "tutor2@test.cd", user.RoleTutor, user.StatusActive)
	tutor3 := testutil.CreateUser(t, usrRepo, "Tutor3", "tutor3@test.cd", user.RoleTutor, user.StatusActive)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 120.5)
	decoy := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Physics", 100)

	app1 := testutil.CreateApplication(t, appRepo, open.ID, tutor1.Email, student.Email, application.StatusApplied)
	app2 := testutil.CreateApplication(t, appRepo, open.ID, tutor2.Email, student.Email, application.StatusApplied)
	app3 := testutil.CreateApplication(t, appRepo, open.ID, tutor3.Email, student.Email, application.StatusApplied)

	hireBody := marchallObj(t, payment.HirePayload{ApplicationID: app2.ID, TuitionID: open.ID, Amount: 120.5})

	t.Run("Only the creator or an admin may hire", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(other), hireBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("Application must belong to the tuition", func(t *testing.T) {
		body := marchallObj(t, payment.HirePayload{ApplicationID: app2.ID, TuitionID: decoy.ID, Amount: 120.5})
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "application does not belong to this tuition"}),
		}, rec)
	})

	t.Run("Malformed ids fail before any write", func(t *testing.T) {
		body := marchallObj(t, payment.HirePayload{ApplicationID: "zzz", TuitionID: open.ID, Amount: 120.5})
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "malformed id"}),
		}, rec)

		payments, err := payRepo.FilterPayments(ctx, payment.QueryFilter{})
		if err != nil {
			t.Fatalf("FilterPayments() failed: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("payments = %d; nothing may be written", len(payments))
		}
	})

	t.Run("Hiring runs the whole workflow", func(t *testing.T) {
		emailsvc.ClearSentMessages()

		req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(student), hireBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		// exactly one paid receipt
		payments, err := payRepo.FilterPayments(ctx, payment.QueryFilter{TuitionID: open.ID})
		if err != nil {
			t.Fatalf("FilterPayments() failed: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("payments = %d; want 1", len(payments))
		}
		pay := payments[0]
		if pay.PaymentStatus != payment.StatusPaid || pay.Amount != 120.5 {
			t.Errorf("unexpected receipt: %+v", pay)
		}
		if pay.TutorEmail != tutor2.Email || pay.StudentEmail != student.Email {
			t.Errorf("receipt parties wrong: %+v", pay)
		}

		// the chosen application is accepted, the competitors rejected
		accepted, err := appRepo.GetApplicationByID(ctx, app2.ID)
		if err != nil {
			t.Fatalf("GetApplicationByID() failed: %v", err)
		}
		if accepted.Status != application.StatusAccepted || accepted.AcceptedAt.IsZero() {
			t.Errorf("chosen application not accepted: %+v", accepted)
		}
		for _, id := range []string{app1.ID, app3.ID} {
			competitor, err := appRepo.GetApplicationByID(ctx, id)
			if err != nil {
				t.Fatalf("GetApplicationByID() failed: %v", err)
			}
			if competitor.Status != application.StatusRejected {
				t.Errorf("competitor %s status = %s; want rejected", id, competitor.Status)
			}
		}

		// the tuition is confirmed
		tui, err := tuiRepo.GetTuitionByID(ctx, open.ID)
		if err != nil {
			t.Fatalf("GetTuitionByID() failed: %v", err)
		}
		if tui.Status != tuition.StatusConfirmed {
			t.Errorf("tuition status = %s; want confirmed", tui.Status)
		}

		// both parties are notified
		if len(emailsvc.SentMessages) != 2 {
			t.Errorf("emails sent = %d; want 2", len(emailsvc.SentMessages))
		}
	})

	t.Run("A confirmed tuition cannot be hired again", func(t *testing.T) {
		body := marchallObj(t, payment.HirePayload{ApplicationID: app1.ID, TuitionID: open.ID, Amount: 120.5})
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "tuition is already confirmed"}),
		}, rec)
	})
}

func Test_paymentApi_queryMine(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor := testutil.CreateUser(t, usrRepo, "Tutor", "tutor@test.cd", user.RoleTutor, user.StatusActive)
	loser := testutil.CreateUser(t, usrRepo, "Loser", "loser@test.cd", user.RoleTutor, user.StatusActive)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 120.5)
	chosen := testutil.CreateApplication(t, appRepo, open.ID, tutor.Email, student.Email, application.StatusApplied)

	body := marchallObj(t, payment.HirePayload{ApplicationID: chosen.ID, TuitionID: open.ID, Amount: 120.5})
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments", getToken(student), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("hire failed: code = %v; body %s", rec.Code, rec.Body.String())
	}

	payments, err := payRepo.FilterPayments(ctx, payment.QueryFilter{TuitionID: open.ID})
	if err != nil || len(payments) != 1 {
		t.Fatalf("FilterPayments() = %v, %v; want one receipt", payments, err)
	}
	receipt := payments[0]

	tests := []httpTest{
		{name: "Student sees own charge", token: getToken(student), wantData: marchallList(t, receipt)},
		{name: "Winning tutor sees the receipt", token: getToken(tutor), wantData: marchallList(t, receipt)},
		{name: "Other tutors see nothing", token: getToken(loser), wantData: marchallList(t)},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/payments/mine", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
