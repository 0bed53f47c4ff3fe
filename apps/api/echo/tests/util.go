package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	. "github.com/joineazy/tracker/apps/api/echo"
	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
	emailsvc "github.com/joineazy/tracker/services/email"
	"github.com/joineazy/tracker/storage/localstore"
	"github.com/joineazy/tracker/tests"
)

var fixedNow = time.Date(2025, 10, 16, 15, 4, 5, 0, time.UTC)

type env struct {
	app    Server
	usrSvc *user.Service
	store  *localstore.Store
	logger core.Logger
}

// setup returns a server over a seeded in-memory store.
func setup(t *testing.T, confFuncs ...func(*core.Config)) env {
	assignment.NowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { assignment.NowFunc = time.Now })

	conf := testutil.Config()
	for _, f := range confFuncs {
		f(conf)
	}
	logger := testutil.Logger(conf)

	store, _ := testutil.PrepareStore(t)
	if _, err := store.SeedIfEmpty(); err != nil {
		t.Fatalf("SeedIfEmpty() failed: %v", err)
	}

	usrSvc := user.NewService(store)
	asgSvc := assignment.NewService(store, usrSvc, emailsvc.NewConsoleServiceMock(conf, logger), logger)

	app := NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		AssignmentSvc:  asgSvc,
	})
	return env{app: app, usrSvc: usrSvc, store: store, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	cookie   *http.Cookie
	wantCode int
	wantData []byte
}

func newRequest(method, path string, cookie *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (e env) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newRequest(tt.method, tt.path, tt.cookie, tt.body)
	e.app.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testutil.Config().Server.SessionCookie {
			return c
		}
	}
	return nil
}

// login logs usr in and returns the session cookie of their tab.
func (e env) login(t *testing.T, usr user.User) *http.Cookie {
	creds := user.Credentials{Email: usr.Email, Password: usr.Password, Role: usr.Role}
	rec := e.do(httpTest{method: http.MethodPost, path: "/v1/users/login", body: marshallObj(t, creds)})
	if rec.Code != http.StatusOK {
		t.Fatalf("login() failed: %d %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("login() failed: no session cookie")
	}
	return cookie
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
