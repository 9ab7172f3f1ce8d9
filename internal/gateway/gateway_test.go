package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

const sessionCookie = "access_token"

// fakeAPI is an in-memory stand-in for the docket REST API.
type fakeAPI struct {
	*httptest.Server
	mux       *http.ServeMux
	lastQuery atomic.Value // url.Values of the last /process listing
	created   atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{mux: http.NewServeMux()}
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		role := types.RoleAdmin
		if strings.HasPrefix(body["email"], "user@") {
			role = types.RoleUser
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "tok-1", Path: "/"})
		writeJSON(w, types.LoginResponse{AccessToken: "tok-1", User: types.User{ID: 1, Email: body["email"], Role: role}})
	})
	f.mux.HandleFunc("POST /auth/create-user", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var data types.CreateUserData
		_ = json.NewDecoder(r.Body).Decode(&data)
		f.created.Add(1)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, types.User{ID: 9, Email: data.Email, Role: data.Role})
	})
	f.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, types.User{ID: 1, Email: "admin@example.com", Role: types.RoleAdmin})
	})
	f.mux.HandleFunc("GET /process", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		f.lastQuery.Store(r.URL.Query())
		writeJSON(w, types.ProcessPage{
			Items: []types.Process{{ID: 5, Processo: "0001"}},
			Total: 120, Page: 1, Limit: 50,
		})
	})
	f.mux.HandleFunc("PATCH /process/{id}/contact", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			http.Error(w, "process not found", http.StatusNotFound)
			return
		}
		var u types.ContactUpdate
		_ = json.NewDecoder(r.Body).Decode(&u)
		p := types.Process{ID: 7}
		u.Apply(&p)
		writeJSON(w, p)
	})
	f.mux.HandleFunc("GET /esaj/batch/processing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []types.Batch{{ID: 3, Description: "Lote A"}})
	})
	f.mux.HandleFunc("GET /eproc/lawsuit/{number}", func(w http.ResponseWriter, r *http.Request) {
		req := "Banco X"
		writeJSON(w, types.LawsuitData{Requerido: &req})
	})
	f.mux.HandleFunc("GET /eproc/lawsuit-url/{number}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.LawsuitURL{URL: "https://eproc.example/" + r.PathValue("number")})
	})
	f.mux.HandleFunc("POST /eproc/import-pdf", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		if hdr.Filename != "lista.pdf" || string(b) != "%PDF-1.4" || r.FormValue("state") != "SP" {
			http.Error(w, "bad upload", http.StatusBadRequest)
			return
		}
		writeJSON(w, types.ImportResult{BatchID: 11, Message: "ok"})
	})
	f.mux.HandleFunc("DELETE /process/batch/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("system") != "eproc" {
			http.Error(w, "missing system", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	f.mux.HandleFunc("GET /process/export/batch/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK-xlsx-bytes"))
	})
	f.Server = httptest.NewServer(f.mux)
	t.Cleanup(f.Close)
	return f
}

func authorized(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == "tok-1"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, api *fakeAPI, opts ...Option) *Client {
	t.Helper()
	c, err := New(api.URL, opts...)
	require.NoError(t, err)
	return c
}

func login(t *testing.T, c *Client) {
	t.Helper()
	_, err := NewAuthService(c).Login(context.Background(), "admin@example.com", "secret1")
	require.NoError(t, err)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("localhost")
	assert.Error(t, err)
}

func TestLogin_PersistsSession(t *testing.T) {
	api := newFakeAPI(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	c := newClient(t, api, WithSessionFile(sessionPath))

	resp, err := NewAuthService(c).Login(context.Background(), "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, resp.User.Role)
	assert.True(t, NewAuthService(c).IsAdmin())

	s, err := LoadSession(sessionPath)
	require.NoError(t, err)
	require.NotNil(t, s.User)
	assert.Equal(t, "admin@example.com", s.User.Email)
	require.Len(t, s.Cookies, 1)
	assert.Equal(t, sessionCookie, s.Cookies[0].Name)

	restored := newClient(t, api, WithSessionFile(sessionPath))
	h, err := NewAuthService(restored).Hydrate(context.Background())
	require.NoError(t, err)
	assert.False(t, h.Unauthorized)
	require.NotNil(t, h.User)
	assert.Equal(t, int64(1), h.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	_, err := NewAuthService(c).Login(context.Background(), "admin@example.com", "nope")
	require.ErrorIs(t, err, types.ErrUnauthorized)
	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.Status)
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		login   string
		data    types.CreateUserData
		wantErr error
		sent    int32
	}{
		{
			name:  "admin creates user",
			login: "admin@example.com",
			data:  types.CreateUserData{Email: "novo@example.com", Password: "secret1", Role: types.RoleUser},
			sent:  1,
		},
		{
			name:    "no session",
			data:    types.CreateUserData{Email: "novo@example.com", Password: "secret1"},
			wantErr: types.ErrUnauthorized,
		},
		{
			name:    "regular user forbidden",
			login:   "user@example.com",
			data:    types.CreateUserData{Email: "novo@example.com", Password: "secret1"},
			wantErr: types.ErrForbidden,
		},
		{
			name:    "weak password rejected locally",
			login:   "admin@example.com",
			data:    types.CreateUserData{Email: "novo@example.com", Password: "123"},
			wantErr: types.ErrWeakPassword,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			c := newClient(t, api)
			auth := NewAuthService(c)
			if tt.login != "" {
				_, err := auth.Login(context.Background(), tt.login, "secret1")
				require.NoError(t, err)
			}

			u, err := auth.CreateUser(context.Background(), tt.data)
			assert.Equal(t, tt.sent, api.created.Load())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.data.Email, u.Email)
			assert.Equal(t, tt.data.Role, u.Role)
		})
	}
}

func TestHydrate_Unauthorized(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	h, err := NewAuthService(c).Hydrate(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Unauthorized)
	assert.Nil(t, h.User)
}

func TestListProcesses_EncodesQuery(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	login(t, c)

	params := types.NewListParams()
	params.Query.Filters = []grid.QueryFilter{{Field: "processo", Operator: grid.OpContains, Value: "0001"}}
	params.Query.Sort = &grid.Sort{Field: "valor", Direction: grid.Desc}
	batch := int64(4)
	params.BatchID = &batch

	page, err := NewProcessService(c).ListProcesses(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 120, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)

	q := api.lastQuery.Load().(url.Values)
	assert.Equal(t, "0001", q.Get("search"))
	assert.Equal(t, "4", q.Get("batchId"))
	assert.Equal(t, "valor", q.Get("sortBy"))
	assert.JSONEq(t, `[{"field":"processo","operator":"contains","value":"0001"}]`, q.Get("filters"))
}

func TestUnauthorizedClearsSession(t *testing.T) {
	api := newFakeAPI(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	c := newClient(t, api, WithSessionFile(sessionPath))
	require.NoError(t, c.SetUser(&types.User{ID: 9, Email: "stale@example.com"}))

	_, err := NewProcessService(c).ListProcesses(context.Background(), types.NewListParams())
	require.ErrorIs(t, err, types.ErrUnauthorized)
	assert.Nil(t, c.User())
	assert.NoFileExists(t, sessionPath)
}

func TestUpdateContact(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	svc := NewProcessService(c)

	u, err := types.ContactUpdateFor(types.FieldContato, "fulano@example.com")
	require.NoError(t, err)
	p, err := svc.UpdateContact(context.Background(), 7, u)
	require.NoError(t, err)
	assert.Equal(t, "fulano@example.com", p.Contato)

	_, err = svc.UpdateContact(context.Background(), 404, u)
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "process not found")

	_, err = svc.UpdateContact(context.Background(), 0, u)
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestCourtService_Lookup(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	svc := NewCourtService(c, types.SystemEproc)

	res, err := svc.Lookup(context.Background(), "0001234-56")
	require.NoError(t, err)
	require.NotNil(t, res.Data.Requerido)
	assert.Equal(t, "Banco X", *res.Data.Requerido)
	assert.Equal(t, "https://eproc.example/0001234-56", res.URL)

	_, err = svc.Lookup(context.Background(), " ")
	assert.ErrorIs(t, err, types.ErrEmptyProcessNumber)

	_, err = NewCourtService(c, types.SystemEsaj).Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, types.ErrNotFound, "esaj lawsuit routes are not served")
}

func TestCourtService_ImportPDF(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	svc := NewCourtService(c, types.SystemEproc)

	res, err := svc.ImportPDF(context.Background(), "/tmp/lista.pdf", strings.NewReader("%PDF-1.4"), "SP")
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.BatchID)

	_, err = svc.ImportPDF(context.Background(), "lista.txt", strings.NewReader(""), "SP")
	assert.ErrorIs(t, err, types.ErrNotPDF)

	_, err = svc.ImportPDF(context.Background(), "lista.pdf", strings.NewReader(""), "RJ")
	assert.ErrorIs(t, err, types.ErrStateUnsupported)
}

func TestCourtService_SetSessionEsajUnsupported(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)
	err := NewCourtService(c, types.SystemEsaj).SetSession(context.Background(), "eproc", "abc")
	assert.ErrorIs(t, err, ErrUnsupported)

	err = NewCourtService(c, types.SystemEproc).SetSession(context.Background(), "eproc", "")
	assert.ErrorIs(t, err, types.ErrEmptySessionID)
}

func TestBatches(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)

	batches, err := NewCourtService(c, types.SystemEsaj).ListProcessingBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, types.SystemEsaj, batches[0].System)

	require.NoError(t, NewProcessService(c).DeleteBatch(context.Background(), 3, types.SystemEproc))

	var buf bytes.Buffer
	n, err := NewProcessService(c).ExportBatch(context.Background(), 3, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("PK-xlsx-bytes")), n)
	assert.Equal(t, "PK-xlsx-bytes", buf.String())
}

func TestRemote_Lifecycle(t *testing.T) {
	api := newFakeAPI(t)
	r := NewRemote()

	_, err := r.ListProcesses(context.Background(), types.NewListParams())
	require.ErrorIs(t, err, types.ErrStoreDetached)

	require.ErrorIs(t, r.Attach(types.Config{Backend: types.BackendRemote}), types.ErrAPIURLEmpty)
	require.NoError(t, r.Attach(types.Config{Backend: types.BackendRemote, APIURL: api.URL}))
	require.ErrorIs(t, r.Attach(types.Config{APIURL: api.URL}), types.ErrAlreadyAttached)

	login(t, r.Client())
	page, err := r.ListProcesses(context.Background(), types.NewListParams())
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, r.Detach())
	require.NoError(t, r.Detach())
	assert.Nil(t, r.Client())
}

func TestHTTPError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &HTTPError{Status: http.StatusForbidden}, types.ErrUnauthorized)
	assert.ErrorIs(t, &HTTPError{Status: http.StatusNotFound}, types.ErrNotFound)
	assert.NoError(t, (&HTTPError{Status: http.StatusInternalServerError}).Unwrap())
	assert.Equal(t, "GET /process: HTTP 500 Internal Server Error: boom",
		(&HTTPError{Status: 500, Method: "GET", URL: "/process", Body: "boom"}).Error())
}
