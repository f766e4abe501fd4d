package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/stores"
)

// constructFamilyRequest is the JSON body for POST /v1/families.
type constructFamilyRequest struct {
	VMClass   engine.VMClass    `json:"vm_class" binding:"required"`
	Provider  engine.ProviderID `json:"provider" binding:"required"`
	Region    string            `json:"region" binding:"required"`
	SizeTier  engine.SizeTier   `json:"size_tier"`
	Overrides engine.Overrides  `json:"overrides"`
}

func (s *Server) constructFamily(c *gin.Context) {
	var req constructFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := s.logger.WithContext(c.Request.Context())
	result, err := s.coordinator.ConstructFamily(ctx, engine.FamilyRequest{
		VMClass:   req.VMClass,
		Provider:  req.Provider,
		Region:    req.Region,
		SizeTier:  req.SizeTier,
		Overrides: req.Overrides,
	})
	s.recordRun(c, req.Provider, req.VMClass, req.Region, result, err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// constructIndividualRequest is the JSON body for POST /v1/vms.
type constructIndividualRequest struct {
	Provider engine.ProviderID `json:"provider" binding:"required"`
	VMConfig engine.VMConfig   `json:"vm_config" binding:"required"`
}

func (s *Server) constructIndividual(c *gin.Context) {
	var req constructIndividualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := s.logger.WithContext(c.Request.Context())
	rec, err := s.coordinator.ConstructIndividual(ctx, req.Provider, req.VMConfig)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) listProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": engine.KnownProviders()})
}

func (s *Server) listCatalog(c *gin.Context) {
	provider := engine.ProviderID(c.Param("provider"))

	listing, err := s.coordinator.ListCatalog(c.Request.Context(), provider)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// validateRequest is the JSON body for POST /v1/validate.
type validateRequest struct {
	Provider engine.ProviderID `json:"provider" binding:"required"`
	VMClass  engine.VMClass    `json:"vm_class" binding:"required"`
	Region   string            `json:"region" binding:"required"`
	SizeTier engine.SizeTier   `json:"size_tier"`
}

func (s *Server) validateConfiguration(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.coordinator.ValidateConfiguration(
		c.Request.Context(), req.Provider, req.VMClass, req.Region, req.SizeTier)
	c.JSON(http.StatusOK, report)
}

// estimateRequest is the JSON body for POST /v1/estimate.
type estimateRequest struct {
	Specification engine.Specification `json:"specification" binding:"required"`
}

func (s *Server) estimateCost(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := engine.ValidateSpecification(req.Specification); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coordinator.EstimateCost(req.Specification))
}

func (s *Server) listTemplates(c *gin.Context) {
	category := c.Query("category")
	summaries := s.coordinator.ListTemplates(c.Request.Context(), category)
	c.JSON(http.StatusOK, gin.H{
		"templates": summaries,
		"total":     len(summaries),
	})
}

func (s *Server) getTemplate(c *gin.Context) {
	name := c.Param("name")

	spec, err := s.coordinator.GetTemplate(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	meta, err := s.coordinator.GetTemplateMeta(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":          name,
		"specification": spec,
		"meta":          meta,
	})
}

// registerTemplateRequest is the JSON body for PUT /v1/templates/:name.
type registerTemplateRequest struct {
	Specification engine.Specification `json:"specification" binding:"required"`
	Meta          engine.TemplateMeta  `json:"meta"`
}

func (s *Server) registerTemplate(c *gin.Context) {
	var req registerTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := s.logger.WithContext(c.Request.Context())
	name := c.Param("name")
	if err := s.coordinator.RegisterTemplate(ctx, name, req.Specification, req.Meta); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "registered": true})
}

func (s *Server) removeTemplate(c *gin.Context) {
	name := c.Param("name")
	if err := s.coordinator.RemoveTemplate(c.Request.Context(), name); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "removed": true})
}

// createFromTemplateRequest is the JSON body for
// POST /v1/templates/:name/instances.
type createFromTemplateRequest struct {
	Provider  engine.ProviderID `json:"provider"`
	Region    string            `json:"region"`
	Overrides engine.Overrides  `json:"overrides"`
}

func (s *Server) createFromTemplate(c *gin.Context) {
	var req createFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := s.logger.WithContext(c.Request.Context())
	name := c.Param("name")
	result, err := s.coordinator.CreateFromTemplate(ctx, name, req.Provider, req.Region, req.Overrides)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.recordRun(c, result.Specification.Provider, result.Specification.VMClass,
		result.Specification.Region, result, nil)

	c.JSON(http.StatusCreated, result)
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run history requires the sqlite store"})
		return
	}

	runs, err := s.store.ListFamilyRuns(c.Request.Context(), 50, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "total": len(runs)})
}

// recordRun persists a construction attempt when the store is enabled.
func (s *Server) recordRun(c *gin.Context, provider engine.ProviderID, class engine.VMClass, region string, result *engine.FamilyResult, constructErr error) {
	if s.store == nil {
		return
	}

	run := &stores.FamilyRun{
		ID:        uuid.NewString(),
		Provider:  provider,
		VMClass:   class,
		Region:    region,
		State:     engine.StateDone,
		CreatedAt: time.Now().UTC(),
	}
	if constructErr != nil {
		msg := constructErr.Error()
		run.State = engine.StateFailed
		run.Error = &msg
		run.Resources = []engine.ResourceRecord{}
	} else {
		run.Resources = result.Resources
	}

	if err := s.store.RecordFamilyRun(c.Request.Context(), run); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record family run")
	}
}
