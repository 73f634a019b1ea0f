package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/services"
	"github.com/tawan-r/ruenthai-api/utils"
)

// resolveImageURL fills in the presigned photo URL on a menu item. A failed
// presign only logs; the menu itself is still served.
func resolveImageURL(menu *models.Menu) {
	if menu.ImageS3Key == nil || *menu.ImageS3Key == "" {
		return
	}
	url, err := services.GetImageService().GetImageURL(*menu.ImageS3Key)
	if err != nil {
		log.Printf("failed to presign menu image %s: %v", *menu.ImageS3Key, err)
		return
	}
	menu.ImageURL = &url
}

// ListMenus handles GET /api/v1/menus - all menu items, optionally
// narrowed to a category
func ListMenus(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Category").Order("id")
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid category ID",
				},
			})
			return
		}
		query = query.Where("category_id = ?", uint(categoryID))
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		respondError(c, err)
		return
	}
	for i := range menus {
		resolveImageURL(&menus[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menus,
	})
}

// GetMenu handles GET /api/v1/menus/:id
func GetMenu(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu ID",
			},
		})
		return
	}

	var menu models.Menu
	if err := config.GetDB().Preload("Category").First(&menu, uint(menuID)).Error; err != nil {
		respondError(c, &services.NotFoundError{Entity: "MENU", Message: "ไม่พบเมนูนี้"})
		return
	}
	resolveImageURL(&menu)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menu,
	})
}

// menuFromForm parses the multipart form fields shared by create and update
func menuFromForm(c *gin.Context, menu *models.Menu) error {
	if name := c.PostForm("name"); name != "" {
		menu.Name = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		menu.Description = description
	}
	if raw := c.PostForm("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return &services.ValidationError{Code: "INVALID_PRICE", Message: "price must be a non-negative number"}
		}
		menu.Price = price
	}
	if raw := c.PostForm("categoryId"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return &services.ValidationError{Code: "INVALID_CATEGORY", Message: "categoryId must be a number"}
		}
		id := uint(categoryID)
		menu.CategoryID = &id
	}
	return nil
}

// CreateMenu handles POST /api/v1/admin/menus - creates a menu item from a
// multipart form, uploading the photo to S3 when one is attached
func CreateMenu(c *gin.Context) {
	var menu models.Menu
	if err := menuFromForm(c, &menu); err != nil {
		respondError(c, err)
		return
	}
	if menu.Name == "" || menu.Price.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name and price are required",
			},
		})
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(fileHeader); err != nil {
			respondError(c, &services.ValidationError{Code: "INVALID_IMAGE", Message: err.Error()})
			return
		}
		key, err := services.GetImageService().UploadImage(fileHeader)
		if err != nil {
			respondError(c, err)
			return
		}
		menu.ImageS3Key = &key
	}

	if err := config.GetDB().Create(&menu).Error; err != nil {
		respondError(c, err)
		return
	}
	resolveImageURL(&menu)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    menu,
	})
}

// UpdateMenu handles PUT /api/v1/admin/menus/:id - updates a menu item,
// replacing its photo when a new one is attached
func UpdateMenu(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu ID",
			},
		})
		return
	}

	db := config.GetDB()
	var menu models.Menu
	if err := db.First(&menu, uint(menuID)).Error; err != nil {
		respondError(c, &services.NotFoundError{Entity: "MENU", Message: "ไม่พบเมนูนี้"})
		return
	}

	if err := menuFromForm(c, &menu); err != nil {
		respondError(c, err)
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(fileHeader); err != nil {
			respondError(c, &services.ValidationError{Code: "INVALID_IMAGE", Message: err.Error()})
			return
		}
		oldKey := menu.ImageS3Key
		key, err := services.GetImageService().UploadImage(fileHeader)
		if err != nil {
			respondError(c, err)
			return
		}
		menu.ImageS3Key = &key
		if oldKey != nil && *oldKey != "" {
			if err := services.GetImageService().DeleteImage(*oldKey); err != nil {
				log.Printf("failed to delete replaced menu image %s: %v", *oldKey, err)
			}
		}
	}

	if err := db.Save(&menu).Error; err != nil {
		respondError(c, err)
		return
	}
	resolveImageURL(&menu)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menu,
	})
}

// DeleteMenu handles DELETE /api/v1/admin/menus/:id
func DeleteMenu(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu ID",
			},
		})
		return
	}

	db := config.GetDB()
	var menu models.Menu
	if err := db.First(&menu, uint(menuID)).Error; err != nil {
		respondError(c, &services.NotFoundError{Entity: "MENU", Message: "ไม่พบเมนูนี้"})
		return
	}

	if err := db.Delete(&menu).Error; err != nil {
		respondError(c, err)
		return
	}
	if menu.ImageS3Key != nil && *menu.ImageS3Key != "" {
		if err := services.GetImageService().DeleteImage(*menu.ImageS3Key); err != nil {
			log.Printf("failed to delete menu image %s: %v", *menu.ImageS3Key, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ลบเมนูเรียบร้อยแล้ว",
	})
}

// ListCategories handles GET /api/v1/categories
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.GetDB().Order("id").Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateCategoryRequest represents the request body for a new category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory handles POST /api/v1/admin/categories
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	category := models.Category{Name: req.Name}
	if err := config.GetDB().Create(&category).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}
