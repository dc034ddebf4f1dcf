package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"clstudio/db"
	"clstudio/deck"
	"clstudio/notifications"
)

// projectSnapshot is the stored shape of a project: the deck plus both
// typing surfaces, so a load restores exactly what the user saw
type projectSnapshot struct {
	Version int           `json:"version"`
	Deck    deck.Snapshot `json:"deck"`
	Code    string        `json:"code"`
	Chat    string        `json:"chat"`
}

const projectSnapshotVersion = 1

type projectInfo struct {
	Name    string `json:"name"`
	SavedAt int64  `json:"savedAt"`
}

// ListProjects handles GET /api/projects
func ListProjects(c *gin.Context) {
	projects, err := db.ListProjects()
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	infos := make([]projectInfo, 0, len(projects))
	for _, p := range projects {
		infos = append(infos, projectInfo{Name: p.Name, SavedAt: p.SavedAt})
	}
	RespondList(c, infos)
}

// SaveProject handles PUT /api/projects/:name: snapshot the current deck and
// surfaces under the given name, replacing any previous snapshot
func SaveProject(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		RespondBadRequest(c, "missing project name")
		return
	}

	snap := projectSnapshot{
		Version: projectSnapshotVersion,
		Deck:    services.Deck.Snapshot(),
		Code:    services.Typist.Content(SurfaceCode),
		Chat:    services.Typist.Content(SurfaceChat),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		RespondInternalError(c, "failed to serialize project: "+err.Error())
		return
	}

	p, err := db.SaveProject(name, string(data))
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	RespondData(c, projectInfo{Name: p.Name, SavedAt: p.SavedAt})
}

// LoadProject handles POST /api/projects/:name/load: replace the live deck
// and surfaces with a saved snapshot. A missing project and a corrupt
// snapshot are distinct failures; neither touches the live state.
func LoadProject(c *gin.Context) {
	name := c.Param("name")

	p, err := db.GetProject(name)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	if p == nil {
		RespondNotFound(c, "project not found: "+name)
		return
	}

	var snap projectSnapshot
	if err := json.Unmarshal([]byte(p.Data), &snap); err != nil {
		RespondUnprocessable(c, "saved project is corrupt: "+err.Error())
		return
	}

	services.Deck.Restore(snap.Deck)
	services.Typist.SetContent(SurfaceCode, snap.Code)
	services.Typist.SetContent(SurfaceChat, snap.Chat)

	notifications.GetService().NotifyProjectLoaded(name)
	notifyDeckChanged()
	RespondData(c, currentDeck())
}

// DeleteProject handles DELETE /api/projects/:name
func DeleteProject(c *gin.Context) {
	name := c.Param("name")

	deleted, err := db.DeleteProject(name)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	if !deleted {
		RespondNotFound(c, "project not found: "+name)
		return
	}
	RespondNoContent(c)
}
