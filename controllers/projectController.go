package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/doug-martin/goqu/v9"
)

// GetActiveProjects lists the projects available in the time-log picker.
// The off-production sentinel sorts first so bench time is one tap away.
func GetActiveProjects(c *gin.Context) {
	var projects []models.Project
	err := initializers.DB.From("projects").
		Where(goqu.C("status").Eq(models.ProjectStatusInProgress)).
		Order(
			goqu.L("CASE WHEN po_number = ? THEN 0 ELSE 1 END", models.BenchProjectCode).Asc(),
			goqu.C("title").Asc(),
		).
		ScanStructs(&projects)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func GetProjectPages(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var pages []models.ProjectPage
	err = initializers.DB.From("project_pages").
		Where(goqu.C("project_id").Eq(projectID)).
		Order(goqu.C("page_name").Asc()).
		ScanStructs(&pages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pages", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func GetProjectPhases(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var phases []models.ProjectPhase
	err = initializers.DB.From("project_phases").
		Where(goqu.C("project_id").Eq(projectID)).
		Order(goqu.C("phase_id").Asc()).
		ScanStructs(&phases)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch phases", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "phases": phases})
}

func GetProjectIssues(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var issues []models.Issue
	err = initializers.DB.From("issues").
		Where(goqu.C("project_id").Eq(projectID)).
		Order(goqu.C("issue_id").Asc()).
		ScanStructs(&issues)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues})
}

func GetEnvironments(c *gin.Context) {
	var environments []models.Environment
	err := initializers.DB.From("environments").
		Order(goqu.C("name").Asc()).
		ScanStructs(&environments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch environments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "environments": environments})
}

func GetGenericCategories(c *gin.Context) {
	var categories []models.GenericCategory
	err := initializers.DB.From("generic_categories").
		Order(goqu.C("category_name").Asc()).
		ScanStructs(&categories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}
