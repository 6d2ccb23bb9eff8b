package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"

	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
	"github.com/stevnathans/hustlecare-sub001/routes"
)

var testDBCounter int64

// setupTest wires the package-level database.DB to a fresh in-memory
// SQLite database and returns a router with the full route table.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	name := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open("sqlite3", name)
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)

	database.DB = db
	database.Migrate(db)
	t.Cleanup(func() { db.Close() })

	router := gin.New()
	routes.SetupRoutes(router)
	return router
}

func authToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   fmt.Sprintf("user%d@example.com", userID),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeBodyList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedBusiness(t *testing.T, name string) *models.Business {
	t.Helper()
	business := models.Business{Name: name, Slug: slug.Make(name)}
	require.NoError(t, database.DB.Create(&business).Error)
	return &business
}

func seedTemplate(t *testing.T, name, description, category string) *models.RequirementTemplate {
	t.Helper()
	template := models.RequirementTemplate{
		Name:        name,
		Description: description,
		Category:    category,
		Necessity:   models.NecessityRequired,
	}
	require.NoError(t, database.DB.Create(&template).Error)
	return &template
}

func seedProduct(t *testing.T, templateID uint, name string, price float64) *models.Product {
	t.Helper()
	product := models.Product{
		RequirementTemplateID: templateID,
		Name:                  name,
		Price:                 price,
		Category:              "General",
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return &product
}
