package api

import "github.com/erp/console/internal/domain/warehouse"

// RobotClient talks to /robots.
type RobotClient struct {
	resource[warehouse.Robot, warehouse.RobotPayload]
}

// NewRobotClient creates a RobotClient on c.
func NewRobotClient(c *Client) *RobotClient {
	return &RobotClient{resource[warehouse.Robot, warehouse.RobotPayload]{client: c, name: "robots"}}
}
