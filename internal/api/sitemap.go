package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// SiteMapEntry is a path with the methods it answers to.
type SiteMapEntry struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

func (s *Server) siteMapEntries() []SiteMapEntry {
	routes := lo.Filter(s.ginEngine.Routes(), func(r gin.RouteInfo, _ int) bool {
		if strings.HasPrefix(r.Path, "/static/") {
			return false
		}
		return r.Method == http.MethodGet || r.Method == http.MethodPost
	})

	byPath := lo.GroupBy(routes, func(r gin.RouteInfo) string { return r.Path })
	entries := lo.MapToSlice(byPath, func(path string, rs gin.RoutesInfo) SiteMapEntry {
		methods := lo.Uniq(lo.Map(rs, func(r gin.RouteInfo, _ int) string { return r.Method }))
		slices.Sort(methods)
		return SiteMapEntry{Path: path, Methods: methods}
	})

	slices.SortFunc(entries, func(a, b SiteMapEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries
}

func (s *Server) siteMap(c *gin.Context) {
	c.JSON(http.StatusOK, s.siteMapEntries())
}
