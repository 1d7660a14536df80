package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
)

// SeedRobots inserts n generated robots and returns them.
func (b *Backend) SeedRobots(n int) []warehouse.Robot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]warehouse.Robot, 0, n)
	for i := range n {
		r := warehouse.Robot{
			ID:        newID(),
			Name:      fmt.Sprintf("MP400-Unit-%02d", len(b.robots)+i+1),
			Available: b.faker.Bool(),
			Status:    string(warehouse.RobotStatuses[b.faker.Number(0, len(warehouse.RobotStatuses)-1)]),
			CreatedAt: now(),
			UpdatedAt: now(),
		}
		b.robots = append(b.robots, r)
		out = append(out, r)
	}
	return out
}

// PutRobot inserts or replaces r as is.
func (b *Backend) PutRobot(r warehouse.Robot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := findIndex(b.robots, robotID, r.ID); i >= 0 {
		b.robots[i] = r
		return
	}
	b.robots = append(b.robots, r)
}

// Robots returns a copy of the stored robots.
func (b *Backend) Robots() []warehouse.Robot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]warehouse.Robot(nil), b.robots...)
}

func robotID(r warehouse.Robot) string { return r.ID }

func (b *Backend) listRobots(c *gin.Context) {
	b.mu.Lock()
	items := append([]warehouse.Robot(nil), b.robots...)
	b.mu.Unlock()
	paginate(c, items)
}

func (b *Backend) getRobot(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.robots, robotID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	respond(c, b.robots[i])
}

func (b *Backend) saveRobot(c *gin.Context) {
	var p warehouse.RobotPayload
	if err := json.Unmarshal(bodyOf(c), &p); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	record := warehouse.Robot{
		Name:           p.Name,
		Available:      p.Available,
		Status:         p.Status,
		CurrentShelfID: p.CurrentShelfID,
		UpdatedAt:      now(),
	}
	if c.Request.Method == http.MethodPost {
		record.ID = newID()
		record.CreatedAt = record.UpdatedAt
		b.robots = append(b.robots, record)
		respond(c, true)
		return
	}

	i := findIndex(b.robots, robotID, p.ID)
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	record.ID = p.ID
	record.CreatedAt = b.robots[i].CreatedAt
	b.robots[i] = record
	respond(c, true)
}

func (b *Backend) deleteRobot(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.robots, robotID, c.Query("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	b.robots = append(b.robots[:i], b.robots[i+1:]...)
	respond(c, true)
}
