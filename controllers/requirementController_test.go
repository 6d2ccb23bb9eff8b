package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

func TestCreateRequirementValidatesNecessity(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")

	w := performRequest(router, http.MethodPost, "/api/requirements",
		map[string]interface{}{
			"name":      "Business License",
			"category":  "Legal",
			"necessity": "Mandatory",
		}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, "/api/requirements",
		map[string]interface{}{
			"name":      "Business License",
			"category":  "Legal",
			"necessity": "Required",
		}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestListRequirementsHidesDeprecatedByDefault(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	seedTemplate(t, "Business License", "", "Legal")
	old := seedTemplate(t, "Fax Machine", "", "Equipment")
	require.NoError(t, database.DB.Model(old).Update("is_deprecated", true).Error)

	w := performRequest(router, http.MethodGet, "/api/requirements", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBodyList(t, w), 1)

	w = performRequest(router, http.MethodGet, "/api/requirements?includeDeprecated=true", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBodyList(t, w), 2)
}

func TestUpdateRequirementCannotToggleDeprecation(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	template := seedTemplate(t, "Business License", "Old text", "Legal")

	w := performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/requirements/%d", template.ID),
		map[string]interface{}{"description": "New text", "isDeprecated": true}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.RequirementTemplate
	require.NoError(t, database.DB.First(&fresh, template.ID).Error)
	assert.Equal(t, "New text", fresh.Description)
	assert.False(t, fresh.IsDeprecated)
}

func TestDeprecateIsOneWay(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	template := seedTemplate(t, "Fax Machine", "", "Equipment")

	path := fmt.Sprintf("/api/requirements/%d/deprecate", template.ID)
	w := performRequest(router, http.MethodPost, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	// A second call is harmless and the flag stays set.
	w = performRequest(router, http.MethodPost, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.RequirementTemplate
	require.NoError(t, database.DB.First(&fresh, template.ID).Error)
	assert.True(t, fresh.IsDeprecated)
}

func TestCreateProductUnderRequirement(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/requirements/%d/products", template.ID),
		map[string]interface{}{"name": "Filing service", "price": 50}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	// Category defaults to the template's category when omitted.
	var product models.Product
	require.NoError(t, database.DB.
		Where("requirement_template_id = ?", template.ID).First(&product).Error)
	assert.Equal(t, "Legal", product.Category)

	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/requirements/%d/products", template.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBodyList(t, w), 1)
}

func TestGetRequirementCounts(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")
	seedProduct(t, template.ID, "Filing service", 50)

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/requirements/%d", template.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["productCount"])
	assert.Equal(t, float64(1), body["linkCount"])
}
