package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule and AdminModule mount a feature's routes on a group.
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// prioritizer orders mounting; lower mounts first, default 100.
type prioritizer interface{ Priority() int }

func mountAPI(g *gin.RouterGroup, mods []APIModule) {
	mods = append([]APIModule(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func mountAdmin(g *gin.RouterGroup, mods []AdminModule) {
	mods = append([]AdminModule(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
