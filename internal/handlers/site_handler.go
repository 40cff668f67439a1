package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// SiteHandler exposes the site registry: CRUD over registered crawl targets
// plus the manual crawl trigger. Deleting a site also purges its documents
// from the index, best-effort.
type SiteHandler struct {
	sites      interfaces.SiteStorage
	index      interfaces.IndexService
	supervisor interfaces.CrawlSupervisor
	crawler    *common.CrawlerConfig
	validate   *validator.Validate
	logger     arbor.ILogger
}

func NewSiteHandler(sites interfaces.SiteStorage, index interfaces.IndexService, supervisor interfaces.CrawlSupervisor, crawler *common.CrawlerConfig) *SiteHandler {
	return &SiteHandler{
		sites:      sites,
		index:      index,
		supervisor: supervisor,
		crawler:    crawler,
		validate:   validator.New(),
		logger:     common.GetLogger(),
	}
}

// ListSitesHandler returns all registered sites, newest first
func (h *SiteHandler) ListSitesHandler(w http.ResponseWriter, r *http.Request) {
	sites, err := h.sites.ListSites(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sites")
		WriteError(w, http.StatusInternalServerError, "Failed to list sites")
		return
	}

	if sites == nil {
		sites = []*models.Site{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": sites})
}

// CreateSiteHandler registers a new crawl target
func (h *SiteHandler) CreateSiteHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SiteCreate
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	req.Domain = common.NormalizeDomain(req.Domain)
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid site: "+err.Error())
		return
	}

	site := req.ToSite()
	if req.MaxDepth == nil {
		site.MaxDepth = h.crawler.DefaultMaxDepth
	}
	if req.MaxPages == nil {
		site.MaxPages = h.crawler.DefaultMaxPages
	}
	if err := h.sites.CreateSite(r.Context(), site); err != nil {
		h.logger.Warn().Err(err).Str("domain", site.Domain).Msg("Failed to create site")
		WriteDomainError(w, err)
		return
	}

	h.logger.Info().Str("site_id", site.ID).Str("domain", site.Domain).Msg("Site registered")
	WriteJSON(w, http.StatusOK, site)
}

// UpdateSiteHandler applies a partial update to a site
func (h *SiteHandler) UpdateSiteHandler(w http.ResponseWriter, r *http.Request, siteID string) {
	var patch models.SitePatch
	if !DecodeJSONBody(w, r, &patch) {
		return
	}

	if patch.Domain != nil {
		normalized := common.NormalizeDomain(*patch.Domain)
		patch.Domain = &normalized
	}
	if err := h.validate.Struct(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid site patch: "+err.Error())
		return
	}

	site, err := h.sites.GetSite(r.Context(), siteID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	site.ApplyPatch(&patch)
	if err := h.sites.UpdateSite(r.Context(), site); err != nil {
		h.logger.Warn().Err(err).Str("site_id", siteID).Msg("Failed to update site")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, site)
}

// DeleteSiteHandler removes a site and purges its indexed documents. The
// index purge is best-effort: a failure is logged and the deletion still
// succeeds, leaving stale documents behind until the domain is re-crawled
// or purged manually.
func (h *SiteHandler) DeleteSiteHandler(w http.ResponseWriter, r *http.Request, siteID string) {
	site, err := h.sites.GetSite(r.Context(), siteID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if err := h.sites.DeleteSite(r.Context(), siteID); err != nil {
		h.logger.Error().Err(err).Str("site_id", siteID).Msg("Failed to delete site")
		WriteDomainError(w, err)
		return
	}

	if err := h.index.DeleteByDomain(r.Context(), site.Domain); err != nil {
		h.logger.Warn().Err(err).Str("domain", site.Domain).Msg("Site deleted but index purge failed")
	}

	h.logger.Info().Str("site_id", siteID).Str("domain", site.Domain).Msg("Site deleted")
	WriteSuccess(w, "Site "+site.Domain+" deleted")
}

// TriggerCrawlHandler launches a crawl for a site immediately
func (h *SiteHandler) TriggerCrawlHandler(w http.ResponseWriter, r *http.Request, siteID string) {
	site, err := h.sites.GetSite(r.Context(), siteID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	task, err := h.supervisor.StartSiteCrawl(r.Context(), site)
	if err != nil {
		h.logger.Warn().Err(err).Str("site_id", siteID).Msg("Failed to launch site crawl")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"task_id": task.ID,
		"status":  string(task.Status),
	})
}
