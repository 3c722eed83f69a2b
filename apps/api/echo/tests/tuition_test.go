package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
	testutil "github.com/darasahq/backend/tests"
)

func Test_tuitionApi_create(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/tuitions", marchallObj(t, tuition.NewTuition{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Status and creator are forced", func(t *testing.T) {
		// whatever status/email the client smuggles in is discarded
		req, rec := newAuthRequest(
			http.MethodPost, "/v1/tuitions", getToken(student),
			[]byte(`{"subject":"Math","class":"10","salary":120.5,"status":"approved","email":"evil@test.cd"}`),
		)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		all, err := tuiRepo.FilterTuitions(ctx, tuition.QueryFilter{})
		if err != nil {
			t.Fatalf("FilterTuitions() failed: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("tuitions = %d; want 1", len(all))
		}
		if all[0].Status != tuition.StatusPending {
			t.Errorf("status = %s; want pending", all[0].Status)
		}
		if all[0].Email != student.Email {
			t.Errorf("email = %s; want %s", all[0].Email, student.Email)
		}
	})

	t.Run("Subject, class and salary required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/tuitions", getToken(student), []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"subject": "this field is required",
				"class":   "this field is required",
				"salary":  "this field is required",
			}),
		}, rec)
	})
}

func Test_tuitionApi_query(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, user.StatusActive)

	pending := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusPending, "Math", 100)
	approved := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Physics", 120)
	rejected := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusRejected, "Chemistry", 90)
	confirmed := testutil.CreateTuition(t, tuiRepo, "other@test.cd", tuition.StatusConfirmed, "English", 80)

	tests := []httpTest{
		{name: "Anonymous viewers see approved and confirmed only", path: "/v1/tuitions", wantData: marchallList(t, approved, confirmed)},
		{
			name: "Students get the same public listing", path: "/v1/tuitions", token: getToken(student),
			wantData: marchallList(t, approved, confirmed),
		},
		{
			name: "Admins see everything", path: "/v1/tuitions", token: getToken(admin),
			wantData: marchallList(t, pending, approved, rejected, confirmed),
		},
		{
			name: "Admin status filter", path: "/v1/tuitions?status=pending", token: getToken(admin),
			wantData: marchallList(t, pending),
		},
		{
			name: "Creator sees own posts in any status", path: "/v1/tuitions/mine", token: getToken(student),
			wantData: marchallList(t, pending, approved, rejected),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_tuitionApi_retrieve(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	tutor := testutil.CreateUser(t, usrRepo, "Tutor", "tutor@test.cd", user.RoleTutor, user.StatusActive)

	pending := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusPending, "Math", 100)
	approved := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Physics", 120)

	errNotFound := marchallObj(t, httpErr{Error: "tuition not found"})

	tests := []httpTest{
		{name: "Anonymous viewer gets an approved post", path: "/v1/tuitions/" + approved.ID, wantData: marchallObj(t, approved)},
		{
			name: "Pending post is hidden, not forbidden", path: "/v1/tuitions/" + pending.ID, token: getToken(tutor),
			wantCode: http.StatusNotFound, wantData: errNotFound,
		},
		{name: "Creator sees own pending post", path: "/v1/tuitions/" + pending.ID, token: getToken(student), wantData: marchallObj(t, pending)},
		{
			name: "Malformed id", path: "/v1/tuitions/zzz",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "malformed id"}),
		},
		{
			name: "Unknown id", path: "/v1/tuitions/ffffffffffffffffffffffff",
			wantCode: http.StatusNotFound, wantData: errNotFound,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_tuitionApi_update(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleStudent, user.StatusActive)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, user.StatusActive)

	post := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusPending, "Math", 100)

	refetch := func(t *testing.T) tuition.Tuition {
		t.Helper()
		tui, err := tuiRepo.GetTuitionByID(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetTuitionByID() failed: %v", err)
		}
		return tui
	}

	t.Run("Non-owner cannot edit", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPatch, "/v1/tuitions/"+post.ID, getToken(other),
			[]byte(`{"subject":"Hacked"}`),
		)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

		if refetch(t).Subject != "Math" {
			t.Error("record was modified by a forbidden request")
		}
	})

	t.Run("Admin may only approve or reject", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPatch, "/v1/tuitions/"+post.ID, getToken(admin),
			[]byte(`{"status":"confirmed"}`),
		)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "status must be one of: approved, rejected"}),
		}, rec)

		if refetch(t).Status != tuition.StatusPending {
			t.Error("status was modified by an invalid request")
		}
	})

	t.Run("Admin approves", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPatch, "/v1/tuitions/"+post.ID, getToken(admin),
			[]byte(`{"status":"approved"}`),
		)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if refetch(t).Status != tuition.StatusApproved {
			t.Error("status not approved")
		}
	})

	t.Run("Creator edit resets approval", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPatch, "/v1/tuitions/"+post.ID, getToken(student),
			[]byte(`{"subject":"Advanced Math","salary":150,"status":"approved","email":"evil@test.cd"}`),
		)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		tui := refetch(t)
		if tui.Status != tuition.StatusPending {
			t.Errorf("status = %s; a creator edit must reset it to pending", tui.Status)
		}
		if tui.Subject != "Advanced Math" || tui.Salary != 150 {
			t.Errorf("descriptive fields not merged: %+v", tui)
		}
		if tui.Email != student.Email {
			t.Errorf("email changed to %s; must be write-once", tui.Email)
		}
		if !tui.CreatedAt.Equal(post.CreatedAt) {
			t.Error("createdAt changed; must be write-once")
		}
	})

	t.Run("Malformed id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/tuitions/not-an-id", getToken(admin), []byte(`{"status":"approved"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "malformed id"}),
		}, rec)
	})
}

func Test_tuitionApi_destroy(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, user.StatusActive)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleStudent, user.StatusActive)

	post := testutil.CreateTuition(t, tuiRepo, student.Email, tuition.StatusApproved, "Math", 100)

	t.Run("Non-owner cannot delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/tuitions/"+post.ID, getToken(other))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("Creator deletes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/tuitions/"+post.ID, getToken(student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		if _, err := tuiRepo.GetTuitionByID(ctx, post.ID); errors.Cause(err) != tuition.ErrNotFound {
			t.Errorf("GetTuitionByID() err = %v; want ErrNotFound", err)
		}
	})
}
