//go:build integration

package integration

import (
	"fmt"
	"math/rand"
	"net/http"
	"testing"

	"github.com/pagekeep/pagekeep/internal/testutil"
	"github.com/stretchr/testify/require"
)

// randomEmail returns a unique email so registration tests never collide.
func randomEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, rand.Int63())
}

// randomISBN returns a unique ISBN in the NNN-NNN-NNN shape.
func randomISBN() string {
	n := rand.Intn(1_000_000_000)
	return fmt.Sprintf("%03d-%03d-%03d", n/1_000_000%1000, n/1000%1000, n%1000)
}

// registerUser registers a user with the given role and returns its email.
// An empty role leaves the server default in place.
func registerUser(t *testing.T, client *testutil.Client, role string) (email, password string) {
	t.Helper()

	email = randomEmail("user")
	password = "password123"

	payload := map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": password,
	}
	if role != "" {
		payload["role"] = role
	}

	resp, err := client.POST("/api/users/register", payload)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return email, password
}

// loginUser logs in and returns the bearer token.
func loginUser(t *testing.T, client *testutil.Client, email, password string) string {
	t.Helper()

	resp, err := client.POST("/api/users/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.True(t, result.Success)
	require.NotEmpty(t, result.Token)

	return result.Token
}

// newClientWithRole registers a fresh user with the role and returns a
// client carrying its token.
func newClientWithRole(t *testing.T, role string) *testutil.Client {
	t.Helper()

	client := newTestClient(t)
	email, password := registerUser(t, client, role)
	token := loginUser(t, client, email, password)
	return client.WithToken(token)
}

// createTestBook creates a book and returns its id.
func createTestBook(t *testing.T, client *testutil.Client, title string) string {
	t.Helper()

	resp, err := client.POST("/api/books", map[string]interface{}{
		"title":         title,
		"author":        "Integration Author",
		"publishedDate": "2020-01-15",
		"ISBN":          randomISBN(),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)

	return result.Data.ID
}

// deleteBook removes a book. Does not fail if already deleted.
func deleteBook(t *testing.T, client *testutil.Client, id string) {
	t.Helper()
	resp, err := client.DELETE("/api/books/" + id)
	if err != nil {
		t.Logf("cleanup warning (book %s): %v", id, err)
		return
	}
	resp.Body.Close()
}
