package apiclient_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/apitest"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) { return "", errors.New("store closed") }

func newClient(t *testing.T, opts ...apiclient.Option) (*apiclient.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	return apiclient.NewClient(srv.BaseURL(), opts...), srv
}

func TestProducts_ListInServerOrder(t *testing.T) {
	cli, srv := newClient(t)
	seeded := srv.SeedProducts(
		models.Product{Title: "Pen", Price: decimal.NewFromInt(10), Category: "Stationery"},
		models.Product{Title: "Ink", Price: decimal.RequireFromString("2.50"), Category: "Stationery"},
	)

	got, err := cli.Products().List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, seeded[0].ID, got[0].ID)
	assert.Equal(t, "Ink", got[1].Title)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got[1].Price))
}

func TestProducts_ListEmptyIsNotNil(t *testing.T) {
	cli, _ := newClient(t)

	got, err := cli.Products().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProducts_CreateSendsMultipartWithImage(t *testing.T) {
	cli, srv := newClient(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)

	created, err := cli.Products().Create(context.Background(), apiclient.ProductPayload{
		Title:       "Pen",
		Price:       decimal.NewFromInt(10),
		Description: "Blue pen",
		Category:    "Stationery",
		Image:       &apiclient.File{Name: "pen.png", Content: png},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.True(t, strings.HasSuffix(created.Image, "pen.png"))
	assert.Equal(t, png, srv.ProductImage(created.ID))

	req, ok := srv.Last(http.MethodPost)
	require.True(t, ok)
	form, err := req.Multipart()
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen"}, form.Value["title"])
	assert.Equal(t, []string{"10"}, form.Value["price"])
	assert.Equal(t, []string{"Blue pen"}, form.Value["description"])
	assert.Equal(t, []string{"Stationery"}, form.Value["category"])
	require.Len(t, form.File["image"], 1)
	assert.Equal(t, "pen.png", form.File["image"][0].Filename)
	assert.Equal(t, "image/png", form.File["image"][0].Header.Get("Content-Type"))
}

func TestProducts_UpdateWithoutImageOmitsPart(t *testing.T) {
	cli, srv := newClient(t)
	seeded := srv.SeedProducts(models.Product{Title: "Pen", Price: decimal.NewFromInt(10), Image: "/uploads/pen.png"})

	updated, err := cli.Products().Update(context.Background(), seeded[0].ID, apiclient.ProductPayload{
		Title: "Pen XL",
		Price: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	assert.Equal(t, seeded[0].ID, updated.ID)
	assert.Equal(t, "/uploads/pen.png", updated.Image)

	req, ok := srv.Last(http.MethodPut)
	require.True(t, ok)
	assert.Equal(t, "/products/"+seeded[0].ID, req.Path)
	form, err := req.Multipart()
	require.NoError(t, err)
	assert.NotContains(t, form.File, "image")
	assert.NotContains(t, form.Value, "image")
}

func TestUsers_UpdateOmitsBlankPassword(t *testing.T) {
	cli, srv := newClient(t)
	seeded := srv.SeedUsers("old-secret", models.User{Name: "Ann", Email: "ann@shop.test", Role: models.RoleUser})

	_, err := cli.Users().Update(context.Background(), seeded[0].ID, apiclient.UserPayload{
		Name:  "Ann",
		Email: "ann@shop.test",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)

	req, ok := srv.Last(http.MethodPut)
	require.True(t, ok)
	body, err := req.JSON()
	require.NoError(t, err)
	assert.NotContains(t, body, "password")
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "old-secret", srv.StoredPassword(seeded[0].ID))
}

func TestUsers_CreateSendsPassword(t *testing.T) {
	cli, srv := newClient(t)

	created, err := cli.Users().Create(context.Background(), apiclient.UserPayload{
		Name: "Bob", Email: "bob@shop.test", Password: "hunter2", Role: models.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hunter2", srv.StoredPassword(created.ID))

	req, _ := srv.Last(http.MethodPost)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestDelete_RemoteErrorCarriesStatusAndBody(t *testing.T) {
	cli, _ := newClient(t)

	err := cli.Products().Delete(context.Background(), "missing")
	require.Error(t, err)

	var re *apiclient.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Contains(t, re.Body, "product not found")
	assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
	assert.False(t, apiclient.IsNetwork(err))
}

func TestInjectedFailure_IsRemoteError(t *testing.T) {
	cli, srv := newClient(t)
	srv.Fail(http.MethodGet, "/users", http.StatusInternalServerError)

	_, err := cli.Users().List(context.Background())
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))
}

func TestNetworkError_WhenServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cli := apiclient.NewClient(url)
	_, err := cli.Users().List(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsNetwork(err))
	assert.Zero(t, apiclient.StatusOf(err))
}

func TestNetworkError_WhenBodyIsNotJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	t.Cleanup(ts.Close)

	_, err := apiclient.NewClient(ts.URL).Products().List(context.Background())
	assert.True(t, apiclient.IsNetwork(err))
}

func TestList_AcceptsDataEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"_id":"u1","name":"Ann","email":"a@x","role":"admin"}],"meta":{"total":1}}`))
	}))
	t.Cleanup(ts.Close)

	got, err := apiclient.NewClient(ts.URL).Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RoleAdmin, got[0].Role)
}

func TestRequests_CarryBearerAndRequestID(t *testing.T) {
	cli, srv := newClient(t, apiclient.WithTokenSource(staticToken("tok-123")))

	_, err := cli.Products().List(context.Background())
	require.NoError(t, err)

	req, ok := srv.Last(http.MethodGet)
	require.True(t, ok)
	assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
}

func TestRequests_NoTokenNoAuthorization(t *testing.T) {
	cli, srv := newClient(t, apiclient.WithTokenSource(staticToken("")))

	_, err := cli.Products().List(context.Background())
	require.NoError(t, err)

	req, _ := srv.Last(http.MethodGet)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestRequests_TokenSourceErrorStopsRequest(t *testing.T) {
	cli, srv := newClient(t, apiclient.WithTokenSource(failingToken{}))

	_, err := cli.Products().List(context.Background())
	require.Error(t, err)
	assert.Zero(t, srv.Count("", ""))
}

func TestStats_DecodeTypedRecords(t *testing.T) {
	cli, srv := newClient(t)
	srv.SetStats(apiclient.SeriesTopCustomers, []map[string]any{
		{"_id": "ann@shop.test", "totalSpent": 125.5, "orders": 3},
	})

	got, err := cli.TopCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ann@shop.test", got[0].Customer)
	assert.True(t, decimal.RequireFromString("125.5").Equal(got[0].TotalSpent))
	assert.Equal(t, 3, got[0].Orders)

	days, err := cli.Last7Days(context.Background())
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestLoggingTransport_LogsEachRequest(t *testing.T) {
	var buf bytes.Buffer
	cli, _ := newClient(t, apiclient.WithLogger(logging.NewWithWriter("info", &buf)))

	_, err := cli.Products().List(context.Background())
	require.NoError(t, err)
	_ = cli.Products().Delete(context.Background(), "missing")

	out := buf.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":404`)
}
