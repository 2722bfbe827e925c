package branch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filialen/internal/api/branch"
	"filialen/internal/domain"
	apperror "filialen/internal/errors"
	"filialen/internal/pkg/logger"
)

// MockBranchService é uma implementação mock da interface BranchService
type MockBranchService struct {
	mock.Mock
}

func (m *MockBranchService) FindByID(ctx context.Context, id int64) (domain.Branch, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Branch), args.Bool(1), args.Error(2)
}

func (m *MockBranchService) FindAll(ctx context.Context) ([]domain.Branch, error) {
	args := m.Called(ctx)
	branches, _ := args.Get(0).([]domain.Branch)
	return branches, args.Error(1)
}

func (m *MockBranchService) Create(ctx context.Context, b domain.Branch) (domain.Branch, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(domain.Branch), args.Error(1)
}

func (m *MockBranchService) Update(ctx context.Context, b domain.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBranchService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memoryService é um BranchService em memória para cenários de ponta a ponta.
type memoryService struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Branch
}

func newMemoryService() *memoryService {
	return &memoryService{rows: map[int64]domain.Branch{}}
}

func (s *memoryService) FindByID(_ context.Context, id int64) (domain.Branch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	return b, ok, nil
}

func (s *memoryService) FindAll(_ context.Context) ([]domain.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Branch, 0, len(s.rows))
	for id := int64(1); id <= s.nextID; id++ {
		if b, ok := s.rows[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memoryService) Create(_ context.Context, b domain.Branch) (domain.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b = b.WithID(s.nextID)
	s.rows[b.ID] = b
	return b, nil
}

func (s *memoryService) Update(_ context.Context, b domain.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[b.ID]; !ok {
		return apperror.NewNotFoundError("filiaal")
	}
	s.rows[b.ID] = b
	return nil
}

func (s *memoryService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return apperror.NewNotFoundError("filiaal")
	}
	delete(s.rows, id)
	return nil
}

func newRouter(svc branch.BranchService) http.Handler {
	h := branch.NewHandler(svc, logger.NewLogger("error"), "")
	r := chi.NewRouter()
	r.Mount(branch.CollectionPath, h.Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func decodeMap(t *testing.T, res *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out
}

// --- GET /filialen/{id} ---

func TestGetBranch_Success_WithLinks(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(7)).
		Return(domain.NewBranch("test", "Leuven", decimal.NewFromInt(1000)).WithID(7), true, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/7", "")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, branch.MediaHALJSON, res.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"id": 7, "naam": "test", "gemeente": "Leuven", "omzet": 1000,
		"_links": {
			"self": {"href": "http://example.com/filialen/7"},
			"werknemers": {"href": "http://example.com/filialen/7/werknemers"}
		}
	}`, res.Body.String())
}

func TestGetBranch_NotFound_EmptyBody(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(-1)).Return(domain.Branch{}, false, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/-1", "")

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, res.Body.String())
}

func TestGetBranch_InvalidID(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/abc", "")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeMap(t, res)["category"])
	svc.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetBranch_ServiceError(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(1)).
		Return(domain.Branch{}, false, apperror.NewDBError("falha", errors.New("db down")))

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/1", "")

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	body := decodeMap(t, res)
	assert.Equal(t, "INTERNAL_ERROR", body["category"])
	assert.NotContains(t, body["message"], "db down")
}

func TestGetBranch_XML(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(2)).
		Return(domain.NewBranch("Noord", "Gent", decimal.NewFromInt(5)).WithID(2), true, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/2", "", "Accept", "application/xml")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "application/xml")
	body := res.Body.String()
	assert.Contains(t, body, "<filiaal>")
	assert.Contains(t, body, "<naam>Noord</naam>")
	assert.Contains(t, body, "<omzet>5</omzet>")
	assert.Contains(t, body, `<link rel="self" href="http://example.com/filialen/2"></link>`)
	assert.Contains(t, body, `<link rel="werknemers" href="http://example.com/filialen/2/werknemers"></link>`)
}

func TestGetBranch_HonoursForwardedProto(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(3)).
		Return(domain.NewBranch("a", "b", decimal.Zero).WithID(3), true, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen/3", "", "X-Forwarded-Proto", "https")

	links := decodeMap(t, res)["_links"].(map[string]interface{})
	assert.Equal(t, "https://example.com/filialen/3", links["self"].(map[string]interface{})["href"])
}

func TestGetBranch_PublicBaseURL(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindByID", mock.Anything, int64(3)).
		Return(domain.NewBranch("a", "b", decimal.Zero).WithID(3), true, nil)

	h := branch.NewHandler(svc, logger.NewLogger("error"), "https://api.vdab.be/")
	r := chi.NewRouter()
	r.Mount(branch.CollectionPath, h.Routes())

	res := do(t, r, http.MethodGet, "/filialen/3", "")

	links := decodeMap(t, res)["_links"].(map[string]interface{})
	assert.Equal(t, "https://api.vdab.be/filialen/3", links["self"].(map[string]interface{})["href"])
}

// --- GET /filialen ---

func TestListBranches_Success(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindAll", mock.Anything).Return([]domain.Branch{
		domain.NewBranch("A", "Leuven", decimal.NewFromInt(1)).WithID(1),
		domain.NewBranch("B", "Gent", decimal.NewFromInt(2)).WithID(2),
	}, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen", "")

	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{
		"_embedded": {"filialen": [
			{"id": 1, "naam": "A", "_links": {"self": {"href": "http://example.com/filialen/1"}}},
			{"id": 2, "naam": "B", "_links": {"self": {"href": "http://example.com/filialen/2"}}}
		]},
		"_links": {"self": {"href": "http://example.com/filialen"}}
	}`, res.Body.String())
}

func TestListBranches_Empty(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindAll", mock.Anything).Return([]domain.Branch{}, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen", "")

	require.Equal(t, http.StatusOK, res.Code)
	embedded := decodeMap(t, res)["_embedded"].(map[string]interface{})
	assert.Empty(t, embedded["filialen"])
}

func TestListBranches_XML(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindAll", mock.Anything).Return([]domain.Branch{
		domain.NewBranch("A", "Leuven", decimal.NewFromInt(1)).WithID(1),
	}, nil)

	res := do(t, newRouter(svc), http.MethodGet, "/filialen", "", "Accept", "text/xml")

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "<filialen>")
	assert.Contains(t, body, `<link rel="self" href="http://example.com/filialen"></link>`)
	assert.Contains(t, body, "<filiaal><id>1</id><naam>A</naam>")
	assert.NotContains(t, body, "gemeente")
}

func TestListBranches_ServiceError(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("FindAll", mock.Anything).Return(nil, errors.New("boom"))

	res := do(t, newRouter(svc), http.MethodGet, "/filialen", "")

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "UNKNOWN_ERROR", decodeMap(t, res)["category"])
}

// --- POST /filialen ---

func TestCreateBranch_Success(t *testing.T) {
	svc := new(MockBranchService)
	input := domain.NewBranch("test", "Leuven", decimal.NewFromInt(1000))
	svc.On("Create", mock.Anything, mock.MatchedBy(func(b domain.Branch) bool {
		return b.ID == 0 && b.Name == input.Name && b.Municipality == input.Municipality && b.Revenue.Equal(input.Revenue)
	})).Return(input.WithID(15), nil)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen",
		`{"id": 99, "naam": "test", "gemeente": "Leuven", "omzet": 1000}`)

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "http://example.com/filialen/15", res.Header().Get("Location"))
	assert.Empty(t, res.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateBranch_AllViolationsReported(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": "  ", "gemeente": ""}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{
		"naam": "must not be blank",
		"gemeente": "must not be blank",
		"omzet": "must not be null"
	}`, res.Body.String())
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBranch_NegativeRevenue(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": "a", "gemeente": "b", "omzet": -0.01}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "must be greater than or equal to 0", decodeMap(t, res)["omzet"])
}

func TestCreateBranch_RevenueScaleBeyondStore(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": "a", "gemeente": "b", "omzet": 12.345}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "numeric value out of bounds (<8 digits>.<2 digits> expected)", decodeMap(t, res)["omzet"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBranch_ZeroRevenueIsValid(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Create", mock.Anything, mock.Anything).Return(domain.NewBranch("a", "b", decimal.Zero).WithID(1), nil)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": "a", "gemeente": "b", "omzet": 0}`)

	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestCreateBranch_MalformedJSON(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": `)

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := decodeMap(t, res)
	assert.Equal(t, "VALIDATION_ERROR", body["category"])
	assert.EqualValues(t, http.StatusBadRequest, body["code"])
}

func TestCreateBranch_XMLBody(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(b domain.Branch) bool {
		return b.Name == "Zuid" && b.Municipality == "Brugge" && b.Revenue.Equal(decimal.RequireFromString("12.5"))
	})).Return(domain.NewBranch("Zuid", "Brugge", decimal.RequireFromString("12.5")).WithID(4), nil)

	req := httptest.NewRequest(http.MethodPost, "/filialen",
		strings.NewReader(`<filiaal><naam>Zuid</naam><gemeente>Brugge</gemeente><omzet>12.5</omzet></filiaal>`))
	req.Header.Set("Content-Type", "application/xml")
	res := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(res, req)

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "http://example.com/filialen/4", res.Header().Get("Location"))
}

func TestCreateBranch_ValidationErrorsAsXML(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPost, "/filialen", `{"naam": "a", "gemeente": "b", "omzet": -1}`,
		"Accept", "application/xml")

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), `<errors><error field="omzet">must be greater than or equal to 0</error></errors>`)
}

// --- PUT /filialen/{id} ---

func TestUpdateBranch_Success_MergesPathID(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(b domain.Branch) bool {
		return b.ID == 3 && b.Name == "Centrum" && b.Revenue.Equal(decimal.NewFromInt(500))
	})).Return(nil)

	res := do(t, newRouter(svc), http.MethodPut, "/filialen/3", `{"naam": "Centrum", "gemeente": "Leuven", "omzet": 500}`)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Empty(t, res.Body.String())
	svc.AssertExpectations(t)
}

func TestUpdateBranch_NegativeRevenue(t *testing.T) {
	svc := new(MockBranchService)

	res := do(t, newRouter(svc), http.MethodPut, "/filialen/3", `{"naam": "a", "gemeente": "b", "omzet": -1}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, decodeMap(t, res), "omzet")
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateBranch_NotFound(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Update", mock.Anything, mock.Anything).Return(apperror.NewNotFoundError("filiaal 9"))

	res := do(t, newRouter(svc), http.MethodPut, "/filialen/9", `{"naam": "a", "gemeente": "b", "omzet": 1}`)

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, res.Body.String())
}

func TestUpdateBranch_StoreValidation(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Update", mock.Anything, mock.Anything).
		Return(apperror.NewFieldValidationError(map[string]string{"omzet": "must be greater than or equal to 0"}))

	res := do(t, newRouter(svc), http.MethodPut, "/filialen/9", `{"naam": "a", "gemeente": "b", "omzet": 1}`)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, decodeMap(t, res), "omzet")
}

// --- DELETE /filialen/{id} ---

func TestDeleteBranch_Success(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Delete", mock.Anything, int64(5)).Return(nil)

	res := do(t, newRouter(svc), http.MethodDelete, "/filialen/5", "")

	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestDeleteBranch_NotFound(t *testing.T) {
	svc := new(MockBranchService)
	svc.On("Delete", mock.Anything, int64(5)).Return(apperror.NewNotFoundError("filiaal 5"))

	res := do(t, newRouter(svc), http.MethodDelete, "/filialen/5", "")

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, res.Body.String())
}

// --- Cenários de ponta a ponta ---

func TestRoundTrip_CreateReadUpdateRead(t *testing.T) {
	router := newRouter(newMemoryService())

	created := do(t, router, http.MethodPost, "/filialen", `{"naam": "test", "gemeente": "Leuven", "omzet": 1000}`)
	require.Equal(t, http.StatusCreated, created.Code)
	location := strings.TrimPrefix(created.Header().Get("Location"), "http://example.com")

	read := do(t, router, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, read.Code)
	body := decodeMap(t, read)
	assert.Equal(t, "test", body["naam"])
	assert.Equal(t, "Leuven", body["gemeente"])
	assert.EqualValues(t, 1000, body["omzet"])
	assert.NotZero(t, body["id"])

	updated := do(t, router, http.MethodPut, location, `{"naam": "test", "gemeente": "Leuven", "omzet": 500}`)
	require.Equal(t, http.StatusNoContent, updated.Code)

	reread := do(t, router, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, reread.Code)
	assert.EqualValues(t, 500, decodeMap(t, reread)["omzet"])
}

func TestRoundTrip_CollectionCountMatchesRows(t *testing.T) {
	router := newRouter(newMemoryService())

	for _, naam := range []string{"A", "B", "C"} {
		res := do(t, router, http.MethodPost, "/filialen", `{"naam": "`+naam+`", "gemeente": "Gent", "omzet": 1}`)
		require.Equal(t, http.StatusCreated, res.Code)
	}
	require.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/filialen/2", "").Code)

	res := do(t, router, http.MethodGet, "/filialen", "")
	items := decodeMap(t, res)["_embedded"].(map[string]interface{})["filialen"].([]interface{})
	assert.Len(t, items, 2)
}

func TestRoundTrip_DeleteTwice(t *testing.T) {
	router := newRouter(newMemoryService())

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/filialen", `{"naam": "x", "gemeente": "y", "omzet": 0}`).Code)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/filialen/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/filialen/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/filialen/1", "").Code)
}
