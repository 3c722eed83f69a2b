package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
	testutil "github.com/darasahq/backend/tests"
)

func Test_applicationApi_create(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor := testutil.CreateUser(t, usrRepo, "Tutor", "tutor@test.cd", user.RoleTutor, user.StatusActive)
	pendingTutor := testutil.CreateUser(t, usrRepo, "Newbie", "newbie@test.cd", user.RoleTutor, user.StatusPending)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 100)
	draft := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusPending, "Physics", 120)

	errTutorOnly := marchallObj(t, httpErr{Error: "only approved tutors may apply"})

	tests := []httpTest{
		{
			name: "Auth required", body: marchallObj(t, application.NewApplication{TuitionID: open.ID}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Students cannot apply", token: getToken(student),
			body:     marchallObj(t, application.NewApplication{TuitionID: open.ID}),
			wantCode: http.StatusForbidden, wantData: errTutorOnly,
		},
		{
			name: "Pending tutors cannot apply", token: getToken(pendingTutor),
			body:     marchallObj(t, application.NewApplication{TuitionID: open.ID}),
			wantCode: http.StatusForbidden, wantData: errTutorOnly,
		},
		{
			name: "Only approved posts take bids", token: getToken(tutor),
			body:     marchallObj(t, application.NewApplication{TuitionID: draft.ID}),
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "tuition is not open for applications"}),
		},
		{
			name: "Malformed tuition id", token: getToken(tutor),
			body:     marchallObj(t, application.NewApplication{TuitionID: "zzz"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "malformed id"}),
		},
		{
			name: "Tuition id required", token: getToken(tutor),
			body:     marchallObj(t, application.NewApplication{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"tuition_id": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/applications", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Tutor identity comes from the token", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPost, "/v1/applications", getToken(tutor),
			[]byte(`{"tuition_id":"`+open.ID+`","tutor_email":"evil@test.cd","status":"accepted"}`),
		)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		apps, err := appRepo.FilterApplications(ctx, application.QueryFilter{TuitionID: open.ID})
		if err != nil {
			t.Fatalf("FilterApplications() failed: %v", err)
		}
		if len(apps) != 1 {
			t.Fatalf("applications = %d; want 1", len(apps))
		}
		if apps[0].TutorEmail != tutor.Email {
			t.Errorf("tutorEmail = %s; want %s", apps[0].TutorEmail, tutor.Email)
		}
		if apps[0].StudentEmail != student.Email {
			t.Errorf("studentEmail = %s; want %s", apps[0].StudentEmail, student.Email)
		}
		if apps[0].Status != application.StatusApplied {
			t.Errorf("status = %s; want applied", apps[0].Status)
		}
	})
}

func Test_applicationApi_queryMine(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor1 := testutil.CreateUser(t, usrRepo, "Tutor1", "tutor1@test.cd", user.RoleTutor, user.StatusActive)
	tutor2 := testutil.CreateUser(t, usrRepo, "Tutor2", "tutor2@test.cd", user.RoleTutor, user.StatusActive)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 100)
	app1 := testutil.CreateApplication(t, appRepo, open.ID, tutor1.Email, student.Email, application.StatusApplied)
	testutil.CreateApplication(t, appRepo, open.ID, tutor2.Email, student.Email, application.StatusApplied)

	req, rec := newAuthRequest(http.MethodGet, "/v1/applications/mine", getToken(tutor1))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, app1)}, rec)
}

func Test_applicationApi_queryByTuition(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor := testutil.CreateUser(t, usrRepo, "Tutor", "tutor@test.cd", user.RoleTutor, user.StatusActive)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, user.StatusActive)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 100)
	app1 := testutil.CreateApplication(t, appRepo, open.ID, tutor.Email, student.Email, application.StatusApplied)

	path := "/v1/tuitions/" + open.ID + "/applications"

	tests := []httpTest{
		{name: "Auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Applicants cannot list competitors", path: path, token: getToken(tutor),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "Creator lists bids", path: path, token: getToken(student), wantData: marchallList(t, app1)},
		{name: "Admin lists bids", path: path, token: getToken(admin), wantData: marchallList(t, app1)},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_applicationApi_selfReject(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor1 := testutil.CreateUser(t, usrRepo, "Tutor1", "tutor1@test.cd", user.RoleTutor, user.StatusActive)
	tutor2 := testutil.CreateUser(t, usrRepo, "Tutor2", "tutor2@test.cd", user.RoleTutor, user.StatusActive)

	open := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 100)
	app1 := testutil.CreateApplication(t, appRepo, open.ID, tutor1.Email, student.Email, application.StatusApplied)

	t.Run("Another tutor's application looks missing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/applications/"+app1.ID+"/reject", getToken(tutor2))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "application not found"}),
		}, rec)

		stored, err := appRepo.GetApplicationByID(ctx, app1.ID)
		if err != nil {
			t.Fatalf("GetApplicationByID() failed: %v", err)
		}
		if stored.Status != application.StatusApplied {
			t.Errorf("status = %s; record must be untouched", stored.Status)
		}
	})

	t.Run("Owner withdraws", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/applications/"+app1.ID+"/reject", getToken(tutor1))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		stored, err := appRepo.GetApplicationByID(ctx, app1.ID)
		if err != nil {
			t.Fatalf("GetApplicationByID() failed: %v", err)
		}
		if stored.Status != application.StatusRejected {
			t.Errorf("status = %s; want rejected", stored.Status)
		}
	})
}
