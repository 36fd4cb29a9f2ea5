package controller

import "github.com/gin-gonic/gin"

// Handlers groups the controllers mounted under /api/v1
type Handlers struct {
	Auth     *AuthController
	Projects *ProjectController
	Tables   *TableController
	Data     *DataController
	Versions *VersionController
	Codegen  *CodegenController
	Health   *HealthController
}

// RegisterRoutes mounts every endpoint on api. requireAuth guards all routes
// except registration, login, format listing and health.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, requireAuth gin.HandlerFunc) {
	public := api.Group("")
	{
		public.POST("/auth/register", h.Auth.Register)
		public.POST("/auth/login", h.Auth.Login)
		public.GET("/codegen/formats", h.Codegen.Formats)
		public.GET("/health", h.Health.HealthCheck)
	}

	auth := api.Group("")
	auth.Use(requireAuth)

	auth.GET("/auth/me", h.Auth.Me)

	projects := auth.Group("/projects")
	{
		projects.POST("", h.Projects.CreateProject)
		projects.GET("", h.Projects.ListProjects)
		projects.GET("/:id", h.Projects.GetProject)
		projects.PUT("/:id", h.Projects.UpdateProject)
		projects.DELETE("/:id", h.Projects.DeleteProject)
	}

	tables := auth.Group("/tables")
	{
		tables.POST("", h.Tables.CreateTable)
		tables.GET("/project/:project_id", h.Tables.ListTables)
		tables.GET("/:id", h.Tables.GetTable)
		tables.DELETE("/:id", h.Tables.DeleteTable)
		tables.POST("/:id/columns", h.Tables.CreateColumn)
		tables.GET("/:id/columns", h.Tables.ListColumns)
		tables.GET("/:id/generate", h.Codegen.Generate)
		tables.GET("/:id/snapshot", h.Codegen.Snapshot)
		tables.POST("/:id/export", h.Codegen.Export)
		tables.GET("/:id/exports", h.Codegen.ListExports)
	}
	auth.DELETE("/columns/:id", h.Tables.DeleteColumn)

	auth.GET("/data/table/:table_id", h.Data.GetTableData)
	auth.POST("/rows", h.Data.CreateRow)
	auth.PATCH("/rows/:id", h.Data.UpdateRow)
	auth.DELETE("/rows/:id", h.Data.DeleteRow)
	auth.PATCH("/cell", h.Data.UpdateCell)

	versions := auth.Group("/versions")
	{
		versions.POST("/commit", h.Versions.Commit)
		versions.POST("/diff", h.Versions.ComputeDiff)
		versions.GET("/project/:project_id", h.Versions.ListByProject)
		versions.GET("/table/:table_id", h.Versions.ListByTable)
		versions.GET("/:id/diff", h.Versions.GetDiff)
		versions.POST("/:id/rollback", h.Versions.Rollback)
		versions.DELETE("/:id", h.Versions.DeleteVersion)
	}
}
