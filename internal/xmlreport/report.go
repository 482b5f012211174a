package xmlreport

import (
	"fmt"
	"strconv"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/beevik/etree"
)

// Render builds an XML document of one user's task list.
func Render(user *models.User, tasks []models.Task) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("tasks")
	root.CreateAttr("owner", user.Username)
	root.CreateAttr("count", strconv.Itoa(len(tasks)))

	for _, task := range tasks {
		el := root.CreateElement("task")
		el.CreateAttr("id", strconv.FormatInt(task.ID, 10))
		el.CreateElement("name").SetText(task.Name)
		el.CreateElement("description").SetText(task.Description)
		el.CreateElement("status").SetText(task.Status.String())
	}

	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize task report: %w", err)
	}
	return body, nil
}
