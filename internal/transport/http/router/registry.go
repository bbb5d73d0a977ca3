package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Modules implement one or both mount interfaces and self-register in init().
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Optional: lower numbers mount first. Default is 100.
type prioritizer interface{ Priority() int }

var (
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
)

// Register dispatches mod to the API and/or admin lists by type assertion.
func Register(mod any) {
	mu.Lock()
	defer mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		apiMods = append(apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		adminMods = append(adminMods, m)
	}
}

// MountAllAPI mounts every registered API module under api, then clears the
// list so a rebuilt engine starts from a clean slate.
func MountAllAPI(api *gin.RouterGroup) {
	mu.Lock()
	mods := apiMods
	apiMods = nil
	mu.Unlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

// MountAllAdmin mounts every registered admin module under admin, clearing
// the list the same way.
func MountAllAdmin(admin *gin.RouterGroup) {
	mu.Lock()
	mods := adminMods
	adminMods = nil
	mu.Unlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
