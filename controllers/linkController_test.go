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

func TestLinkExistingTemplate(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "License to operate [businessName]", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["wasCreated"])
	assert.Equal(t, "License to operate Acme", body["description"])
	assert.Equal(t, true, body["isActive"])
	assert.NotZero(t, body["linkId"])
}

func TestLinkDuplicateReturnsConflictWithLinkID(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")

	path := fmt.Sprintf("/api/businesses/%d/requirements", business.ID)
	first := performRequest(router, http.MethodPost, path,
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, first.Code)
	firstLinkID := decodeBody(t, first)["linkId"]

	second := performRequest(router, http.MethodPost, path,
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, firstLinkID, decodeBody(t, second)["linkId"])

	var count int
	database.DB.Model(&models.BusinessRequirement{}).
		Where("business_id = ? AND requirement_template_id = ?", business.ID, template.ID).
		Count(&count)
	assert.Equal(t, 1, count)
}

func TestLinkDeprecatedTemplateRejected(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Old Permit", "", "Legal")
	require.NoError(t, database.DB.Model(template).Update("is_deprecated", true).Error)

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int
	database.DB.Model(&models.BusinessRequirement{}).
		Where("requirement_template_id = ?", template.ID).
		Count(&count)
	assert.Equal(t, 0, count)
}

func TestDeprecationLeavesExistingLinksUntouched(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	linked := seedBusiness(t, "Acme")
	other := seedBusiness(t, "Beta Shop")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", linked.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/requirements/%d/deprecate", template.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	// Existing link still listed.
	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/businesses/%d/requirements", linked.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBodyList(t, w), 1)

	// New links are blocked.
	w = performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", other.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLinkCreatesTemplateInline(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{
			"name":        "Health Permit",
			"description": "Permit for [businessName]",
			"category":    "Legal",
			"necessity":   "Optional",
		}, admin)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["wasCreated"])
	assert.Equal(t, "Permit for Acme", body["description"])

	var template models.RequirementTemplate
	require.NoError(t, database.DB.Where("name = ?", "Health Permit").First(&template).Error)
	assert.Equal(t, "Optional", template.Necessity)
}

func TestLinkInlineMissingFields(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"name": "Health Permit"}, admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLinkBusinessNotFound(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost, "/api/businesses/9999/requirements",
		map[string]interface{}{"templateId": template.ID}, admin)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinkRequiresAdminRole(t *testing.T) {
	router := setupTest(t)
	user := authToken(t, 2, "user")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, user)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOverrideBeatsResolvedTemplate(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	acme := seedBusiness(t, "Acme")
	beta := seedBusiness(t, "Beta")
	template := seedTemplate(t, "Business License", "License to operate [businessName]", "Legal")

	for _, business := range []*models.Business{acme, beta} {
		w := performRequest(router, http.MethodPost,
			fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
			map[string]interface{}{"templateId": template.ID}, admin)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var betaLink models.BusinessRequirement
	require.NoError(t, database.DB.
		Where("business_id = ?", beta.ID).First(&betaLink).Error)

	w := performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/businesses/%d/requirements/%d", beta.ID, betaLink.ID),
		map[string]interface{}{"descriptionOverride": "Custom text"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Custom text", decodeBody(t, w)["description"])

	// Acme keeps the resolved canonical text.
	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/businesses/%d/requirements", acme.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	links := decodeBodyList(t, w)
	require.Len(t, links, 1)
	assert.Equal(t, "License to operate Acme", links[0]["description"])
}

func TestUpdateLinkPartialAndExplicitNull(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "Canonical text", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := uint(decodeBody(t, w)["linkId"].(float64))

	path := fmt.Sprintf("/api/businesses/%d/requirements/%d", business.ID, linkID)

	w = performRequest(router, http.MethodPut, path,
		map[string]interface{}{"descriptionOverride": "Override"}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	// Absent override key leaves the override alone.
	w = performRequest(router, http.MethodPut, path,
		map[string]interface{}{"displayOrder": 5}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Override", body["description"])
	assert.Equal(t, float64(5), body["displayOrder"])

	// Explicit null clears it.
	w = performRequest(router, http.MethodPut, path,
		map[string]interface{}{"descriptionOverride": nil}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Canonical text", decodeBody(t, w)["description"])
}

func TestUpdateLinkScopedToOwningBusiness(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	owner := seedBusiness(t, "Acme")
	other := seedBusiness(t, "Beta")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", owner.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := uint(decodeBody(t, w)["linkId"].(float64))

	w = performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/businesses/%d/requirements/%d", other.ID, linkID),
		map[string]interface{}{"isActive": false}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var link models.BusinessRequirement
	require.NoError(t, database.DB.First(&link, linkID).Error)
	assert.True(t, link.IsActive)
}

func TestUnlinkKeepsTemplate(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := uint(decodeBody(t, w)["linkId"].(float64))

	w = performRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/businesses/%d/requirements/%d", business.ID, linkID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	message := decodeBody(t, w)["message"].(string)
	assert.Contains(t, message, "Business License")
	assert.Contains(t, message, "Acme")

	var count int
	database.DB.Model(&models.BusinessRequirement{}).Where("id = ?", linkID).Count(&count)
	assert.Equal(t, 0, count)

	var kept models.RequirementTemplate
	assert.NoError(t, database.DB.First(&kept, template.ID).Error)
}

func TestUnlinkByTemplateID(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/businesses/%d/requirements?templateId=%d", business.ID, template.ID),
		nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var count int
	database.DB.Model(&models.BusinessRequirement{}).
		Where("business_id = ?", business.ID).Count(&count)
	assert.Equal(t, 0, count)
}

func TestBulkLinkPartialFailure(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	fresh := seedBusiness(t, "Acme")
	already := seedBusiness(t, "Beta")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", already.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/requirements/%d/bulk-link", template.ID),
		map[string]interface{}{"businessIds": []uint{fresh.ID, already.ID, 9999}}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total"])
	assert.Equal(t, float64(1), summary["linked"])
	assert.Equal(t, float64(1), summary["duplicates"])
	assert.Equal(t, float64(1), summary["failed"])

	results := body["results"].([]interface{})
	require.Len(t, results, 3)
	duplicate := results[1].(map[string]interface{})
	assert.Equal(t, "duplicate", duplicate["status"])
	assert.NotZero(t, duplicate["linkId"])
}

func TestBulkLinkEmptyList(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	template := seedTemplate(t, "Business License", "", "Legal")

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/requirements/%d/bulk-link", template.ID),
		map[string]interface{}{"businessIds": []uint{}}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLinksOrderedByDisplayOrder(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	first := seedTemplate(t, "First", "", "Legal")
	second := seedTemplate(t, "Second", "", "Legal")

	for _, template := range []*models.RequirementTemplate{first, second} {
		w := performRequest(router, http.MethodPost,
			fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
			map[string]interface{}{"templateId": template.ID}, admin)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Push the first-linked template to the bottom.
	var firstLink models.BusinessRequirement
	require.NoError(t, database.DB.
		Where("business_id = ? AND requirement_template_id = ?", business.ID, first.ID).
		First(&firstLink).Error)
	w := performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/businesses/%d/requirements/%d", business.ID, firstLink.ID),
		map[string]interface{}{"displayOrder": 10}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	links := decodeBodyList(t, w)
	require.Len(t, links, 2)
	assert.Equal(t, "Second", links[0]["name"])
	assert.Equal(t, "First", links[1]["name"])
}

func TestProductCountOnProjection(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	business := seedBusiness(t, "Acme")
	template := seedTemplate(t, "Business License", "", "Legal")
	seedProduct(t, template.ID, "Filing service", 50)
	seedProduct(t, template.ID, "Express filing", 120)

	w := performRequest(router, http.MethodPost,
		fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
		map[string]interface{}{"templateId": template.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["productCount"])
}

func TestRequirementBusinessesView(t *testing.T) {
	router := setupTest(t)
	admin := authToken(t, 1, "admin")
	acme := seedBusiness(t, "Acme")
	beta := seedBusiness(t, "Beta")
	template := seedTemplate(t, "Business License", "", "Legal")

	for _, business := range []*models.Business{acme, beta} {
		w := performRequest(router, http.MethodPost,
			fmt.Sprintf("/api/businesses/%d/requirements", business.ID),
			map[string]interface{}{"templateId": template.ID}, admin)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/requirements/%d/businesses", template.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBodyList(t, w)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0]["businessName"])
	assert.Equal(t, "beta", rows[1]["businessSlug"])
}
