package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...func(*Config)) (*Client, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:     srv.URL + "/api",
		Credentials: StaticToken(testToken),
		Now:         func() time.Time { return now },
	}
	for _, o := range opts {
		o(&cfg)
	}

	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c, &hits
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{Credentials: StaticToken("x")})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestClientList(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/getAllCoupons", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "save", r.URL.Query().Get("search"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"coupons":    []map[string]interface{}{{"id": "c1", "code": "SAVE10"}},
			"totalPages": 3,
			"totalItems": 11,
		})
	})

	page, err := c.List(context.Background(), 2, 5, "save")

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "SAVE10", page.Items[0].Code)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 11, page.TotalItems)
}

func TestClientGetByID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getCouponById", r.URL.Path)
		if r.URL.Query().Get("id") != "c1" {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Coupon not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"coupon":  map[string]interface{}{"id": "c1", "code": "SAVE10", "usageCount": 4, "maxUsage": 10},
		})
	})

	t.Run("Found", func(t *testing.T) {
		got, err := c.GetByID(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", got.Code)
		assert.Equal(t, 4, got.UsageCount)
	})

	t.Run("Stale id", func(t *testing.T) {
		_, err := c.GetByID(context.Background(), "gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Coupon not found", Notify(err).Message)
	})
}

func TestClientCreate(t *testing.T) {
	t.Run("Valid draft is sent", func(t *testing.T) {
		c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/createCoupon", r.URL.Path)

			var p Payload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Equal(t, "SAVE10", p.Code)
			assert.True(t, p.IsPublic)
			assert.Empty(t, p.AssignedUsers)

			writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": "new-id"})
		})

		d := validDraft()
		d.AssignedUsers = []string{"leftover"}
		id, err := c.Create(context.Background(), d)

		require.NoError(t, err)
		assert.Equal(t, "new-id", id)
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	})

	t.Run("Invalid draft never reaches the network", func(t *testing.T) {
		c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})

		d := validDraft()
		d.IsPublic = false
		d.AssignedUsers = nil
		_, err := c.Create(context.Background(), d)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgSelectAtLeastOneUser, verr.Fields[FieldAssignedUsers])
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})

	t.Run("Duplicate code message is shown verbatim", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{"success": false, "message": "Coupon code already exists"})
		})

		_, err := c.Create(context.Background(), validDraft())

		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, Notification{Title: "Error", Message: "Coupon code already exists"}, Notify(err))
	})

	t.Run("Bare 400 maps to generic validation message", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})

		_, err := c.Create(context.Background(), validDraft())

		assert.ErrorIs(t, err, ErrServerValidation)
		assert.Equal(t, GenericValidationMessage, Notify(err).Message)
	})

	t.Run("Server field errors are kept", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"errors":  map[string]string{"code": "required"},
			})
		})

		_, err := c.Create(context.Background(), validDraft())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "required", apiErr.Fields["code"])
	})
}

func TestClientUpdate(t *testing.T) {
	original := Coupon{
		ID:            "c1",
		Code:          "VIP",
		Description:   "vip only",
		DiscountType:  DiscountPercentage,
		DiscountValue: 20,
		ExpiryDate:    now.Add(48 * time.Hour).UTC(),
		IsPublic:      false,
		AssignedUsers: []string{"u1"},
		MaxUsage:      5,
		UsageCount:    2,
	}

	var got Payload
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/updateCoupon", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	err := c.Update(context.Background(), original.ID, DraftFromCoupon(original))

	require.NoError(t, err)
	want := original.Editable()
	want.ID = "c1"
	assert.Equal(t, want, got)
}

func TestClientDelete(t *testing.T) {
	t.Run("Legacy GET verb by default", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/deleteCoupon", r.URL.Path)
			assert.Equal(t, "c1", r.URL.Query().Get("id"))
			writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Coupon deleted"})
		})

		assert.NoError(t, c.Delete(context.Background(), "c1"))
	})

	t.Run("DELETE verb when configured", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/coupons/c1", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Coupon deleted"})
		}, func(cfg *Config) { cfg.DeleteMethod = "delete" })

		assert.NoError(t, c.Delete(context.Background(), "c1"))
	})
}

func TestClientListUsers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getAllUsersList", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"users":   []map[string]string{{"id": "u1", "firstName": "Ada", "phone": "100"}},
		})
	})

	users, err := c.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []User{{ID: "u1", FirstName: "Ada", Phone: "100"}}, users)
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Credentials: StaticToken(testToken)})
	require.NoError(t, err)

	_, err = c.List(context.Background(), 1, 10, "")

	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, GenericFallbackMessage, Notify(err).Message)
}

func TestNotify(t *testing.T) {
	assert.Equal(t, Notification{}, Notify(nil))
	assert.Equal(t, GenericFallbackMessage, Notify(errors.New("anything")).Message)
	assert.Equal(t, GenericFallbackMessage, Notify(newAPIError(http.StatusInternalServerError, "", nil)).Message)
	assert.Equal(t, "boom", Notify(newAPIError(http.StatusInternalServerError, "boom", nil)).Message)
	assert.Equal(t, GenericValidationMessage, Notify(&ValidationError{Fields: map[string]string{"code": "required"}}).Message)
}
