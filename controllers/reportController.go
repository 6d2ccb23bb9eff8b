package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"

	"github.com/stevnathans/hustlecare-sub001/database"
	"github.com/stevnathans/hustlecare-sub001/models"
)

type shoppingListRow struct {
	Requirement string
	Product     string
	Category    string
	Quantity    int
	UnitPrice   float64
	TotalValue  float64
}

// CartReport renders the caller's cart for a business as a PDF
// shopping list.
func CartReport(c *gin.Context) {
	cart, found, ok := findCallerCart(c)
	if !ok {
		return
	}

	business, err := findBusiness(c.Param("businessId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var rows []shoppingListRow
	totalCost := float64(0)
	if found {
		var items []models.CartItem
		if err := database.DB.Where("cart_id = ?", cart.ID).
			Order("category asc, created_at asc").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		productIDs := make([]uint, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		products := make(map[uint]models.Product)
		if len(productIDs) > 0 {
			var productRows []models.Product
			if err := database.DB.Where("id IN (?)", productIDs).Find(&productRows).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
				return
			}
			for _, p := range productRows {
				products[p.ID] = p
			}
		}

		for _, item := range items {
			rows = append(rows, shoppingListRow{
				Requirement: item.RequirementName,
				Product:     products[item.ProductID].Name,
				Category:    item.Category,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalValue:  float64(item.Quantity) * item.UnitPrice,
			})
		}
		totalCost = cart.TotalCost
	}

	pdfBytes := generateShoppingListPDF(rows, business.Name, totalCost)

	filename := fmt.Sprintf("%s-shopping-list-%s.pdf", business.Slug, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func generateShoppingListPDF(rows []shoppingListRow, businessName string, totalCost float64) []byte {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)

	pdf.CellFormat(0, 10, fmt.Sprintf("Shopping List - %s", businessName), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Items: %d", len(rows)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Total Cost: %.2f", totalCost), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Table Header
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 10, "Requirement", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 10, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 10, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 10, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 10, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 10, "Total", "1", 1, "C", false, 0, "")

	// Table Rows
	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(45, 10, row.Requirement, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 10, row.Product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 10, row.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 10, fmt.Sprintf("%d", row.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 10, fmt.Sprintf("%.2f", row.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 10, fmt.Sprintf("%.2f", row.TotalValue), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
