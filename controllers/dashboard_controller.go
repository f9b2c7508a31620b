package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/utils"
)

// GetDashboardStats returns aggregated conversion counters plus recent
// deploy and form activity for one tenant. Counters come from the
// pre-aggregated daily stats, not the raw event table.
func GetDashboardStats(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 || days > 365 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	type typeCount struct {
		ConversionType string `json:"conversion_type"`
		Total          int64  `json:"total"`
	}
	var byType []typeCount
	if err := config.DB.Model(&models.DailyStat{}).
		Select("conversion_type, SUM(count) AS total").
		Where("client_key = ? AND day >= ?", clientKey, since).
		Group("conversion_type").
		Order("total desc").
		Scan(&byType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load stats", err)
	}

	var total int64
	for _, tc := range byType {
		total += tc.Total
	}

	var daily []models.DailyStat
	if err := config.DB.
		Where("client_key = ? AND day >= ?", clientKey, since).
		Order("day asc").
		Find(&daily).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load stats", err)
	}

	var formCount int64
	config.DB.Model(&models.FormSubmission{}).
		Where("client_key = ? AND created_at >= ?", clientKey, since).
		Count(&formCount)

	var recentDeploys []models.DeployRecord
	config.DB.Where("client_key = ?", clientKey).
		Order("created_at desc").Limit(5).
		Find(&recentDeploys)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"period_days":       days,
		"total_conversions": total,
		"by_type":           byType,
		"daily":             daily,
		"form_submissions":  formCount,
		"recent_deploys":    recentDeploys,
	}))
}

// ListFormSubmissions pages through stored contact-form posts.
func ListFormSubmissions(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage := 20

	var total int64
	config.DB.Model(&models.FormSubmission{}).
		Where("client_key = ?", clientKey).
		Count(&total)

	var submissions []models.FormSubmission
	if err := config.DB.Where("client_key = ?", clientKey).
		Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&submissions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load submissions", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"submissions": submissions,
		"page":        page,
		"per_page":    perPage,
		"total":       total,
	}))
}
