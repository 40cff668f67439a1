package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Site registry
	mux.HandleFunc("/sites", s.handleSitesRoute)  // GET (list), POST (create)
	mux.HandleFunc("/sites/", s.handleSiteRoutes) // PUT/DELETE /{id}, POST /{id}/crawl

	// Crawl tasks
	mux.HandleFunc("/crawl", s.handleCrawlRoute)        // POST - ad-hoc crawl
	mux.HandleFunc("/crawl/tasks", s.handleTasksRoute)  // GET - paged task list
	mux.HandleFunc("/crawl/", s.handleTaskRoutes)       // GET /{task_id}

	// Search
	mux.HandleFunc("/search", s.handleSearchRoute)                     // POST - ranked query
	mux.HandleFunc("/search/stats", s.app.SearchHandler.StatsHandler)  // GET - index stats

	// System
	mux.HandleFunc("/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/version", s.app.APIHandler.VersionHandler)

	// 404 handler for everything else
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSitesRoute routes the site collection endpoint
func (s *Server) handleSitesRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r,
		s.app.SiteHandler.ListSitesHandler,
		s.app.SiteHandler.CreateSiteHandler)
}

// handleSiteRoutes routes site item endpoints: /sites/{id} and /sites/{id}/crawl
func (s *Server) handleSiteRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sites/")
	if rest == "" {
		http.Error(w, "Site ID required", http.StatusBadRequest)
		return
	}

	// POST /sites/{id}/crawl - manual crawl trigger
	if siteID, ok := strings.CutSuffix(rest, "/crawl"); ok && !strings.Contains(siteID, "/") {
		if !RequireMethod(w, r, "POST") {
			return
		}
		s.app.SiteHandler.TriggerCrawlHandler(w, r, siteID)
		return
	}

	if strings.Contains(rest, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "PUT":
		s.app.SiteHandler.UpdateSiteHandler(w, r, rest)
	case "DELETE":
		s.app.SiteHandler.DeleteSiteHandler(w, r, rest)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCrawlRoute routes the ad-hoc crawl trigger
func (s *Server) handleCrawlRoute(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	s.app.CrawlHandler.StartCrawlHandler(w, r)
}

// handleTasksRoute routes the paged task list
func (s *Server) handleTasksRoute(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	s.app.CrawlHandler.ListTasksHandler(w, r)
}

// handleTaskRoutes routes task item endpoints: /crawl/{task_id}
func (s *Server) handleTaskRoutes(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/crawl/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}
	s.app.CrawlHandler.GetTaskHandler(w, r, taskID)
}

// handleSearchRoute routes the search passthrough
func (s *Server) handleSearchRoute(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	s.app.SearchHandler.SearchHandler(w, r)
}
