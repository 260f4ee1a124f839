package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/umputun/todocheck/fixture"
	"github.com/umputun/todocheck/todo"
)

// stdout receives command output, banner and logs go to stderr
var stdout io.Writer = os.Stdout

type addCmd struct {
	Count     int  `short:"n" long:"count" description:"add N todos named TEXT1..TEXTN"`
	Identical bool `long:"identical" description:"with --count, give all todos the same TEXT"`
	Typed     bool `long:"typed" description:"type text key by key instead of filling the entry box"`
}

// Execute adds every argument as a todo, or --count todos made from a single argument
func (c *addCmd) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("add requires todo text")
	}
	if c.Count < 0 {
		return fmt.Errorf("invalid count %d", c.Count)
	}
	if c.Count > 0 && len(args) != 1 {
		return errors.New("add --count requires exactly one base text")
	}

	return withPage(func(p *todo.Page) error {
		switch {
		case c.Count > 0 && c.Identical:
			return p.AddIdenticalTodos(c.Count, args[0])
		case c.Count > 0:
			return p.AddMultipleTodos(c.Count, args[0])
		}
		for _, text := range args {
			add := p.AddNewTodo
			if c.Typed {
				add = p.TypeNewTodo
			}
			if err := add(text); err != nil {
				return err
			}
		}
		return nil
	})
}

type completeCmd struct{}

// Execute marks every argument as completed
func (c *completeCmd) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("complete requires todo text")
	}
	return withPage(func(p *todo.Page) error { return p.MarkAsCompletedByText(args...) })
}

type toggleCmd struct{}

// Execute flips completed state of a single todo
func (c *toggleCmd) Execute(args []string) error {
	if len(args) != 1 {
		return errors.New("toggle requires exactly one todo text")
	}
	return withPage(func(p *todo.Page) error { return p.ToggleCompletedByText(args[0]) })
}

type editCmd struct {
	Save string `long:"save" default:"enter" choice:"enter" choice:"blur" choice:"escape" description:"how to finish editing"`
}

// Execute replaces text of the todo matching the first argument with the second one
func (c *editCmd) Execute(args []string) error {
	if len(args) != 2 {
		return errors.New("edit requires old and new todo text")
	}
	method, err := todo.ParseSaveMethod(c.Save)
	if err != nil {
		return err
	}
	return withPage(func(p *todo.Page) error { return p.EditTodo(args[0], args[1], method) })
}

type deleteCmd struct{}

// Execute removes every argument from the list
func (c *deleteCmd) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("delete requires todo text")
	}
	return withPage(func(p *todo.Page) error { return p.DeleteTodosByText(args...) })
}

type toggleAllCmd struct{}

// Execute clicks toggle-all
func (c *toggleAllCmd) Execute(_ []string) error {
	return withPage(func(p *todo.Page) error { return p.ClickToggleAll() })
}

type clearCmd struct{}

// Execute removes completed todos
func (c *clearCmd) Execute(_ []string) error {
	return withPage(func(p *todo.Page) error { return p.ClearCompleted() })
}

type listCmd struct {
	Filter string `short:"f" long:"filter" default:"all" choice:"all" choice:"active" choice:"completed" description:"list filter"`
	Format string `long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" description:"output format"`
}

// listedTodo is a todo as shown by list command
type listedTodo struct {
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Execute prints todos visible with the filter, completion state comes from the persisted list
func (c *listCmd) Execute(_ []string) error {
	filter, err := todo.ParseFilter(c.Filter)
	if err != nil {
		return err
	}
	return withPage(func(p *todo.Page) error {
		todos, err := listTodos(p, filter)
		if err != nil {
			return err
		}
		return writeTodos(stdout, c.Format, todos)
	})
}

// todoLister is the part of the page object used by list
type todoLister interface {
	CheckAnyTodosPresent() bool
	FilterByButton(f todo.Filter) error
	VisibleTodoTexts() ([]string, error)
	StoredTodos() ([]todo.StoredTodo, error)
}

// listTodos returns todos shown with the filter. Filter links are hidden while the list is empty,
// so an empty list is returned without touching them.
func listTodos(p todoLister, filter todo.Filter) ([]listedTodo, error) {
	if !p.CheckAnyTodosPresent() {
		return []listedTodo{}, nil
	}
	if err := p.FilterByButton(filter); err != nil {
		return nil, err
	}
	visible, err := p.VisibleTodoTexts()
	if err != nil {
		return nil, err
	}
	stored, err := p.StoredTodos()
	if err != nil && !errors.Is(err, todo.ErrNoStorage) {
		return nil, err
	}
	return mergeTodos(visible, stored), nil
}

type shotCmd struct {
	Out string `short:"o" long:"out" description:"output png file, random name if not set"`
}

// Execute saves screenshot of the page body
func (c *shotCmd) Execute(_ []string) error {
	out := c.Out
	if out == "" {
		out = "todo-" + uuid.NewString()[:8] + ".png"
	}
	return withPage(func(p *todo.Page) error {
		img, err := p.BodyScreenshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, img, 0o600); err != nil {
			return fmt.Errorf("failed to write screenshot: %w", err)
		}
		lgr.Printf("[INFO] screenshot saved to %s, %s", out, humanize.Bytes(uint64(len(img))))
		return nil
	})
}

// mergeTodos pairs visible texts with stored records, in visible order.
// duplicated titles are matched to stored records in order.
func mergeTodos(visible []string, stored []todo.StoredTodo) []listedTodo {
	used := make([]bool, len(stored))
	res := make([]listedTodo, 0, len(visible))
	for _, text := range visible {
		item := listedTodo{Title: text}
		for i, s := range stored {
			if !used[i] && s.Title == fixture.Trim(text) {
				used[i] = true
				item.Completed = s.Completed
				break
			}
		}
		res = append(res, item)
	}
	return res
}

func writeTodos(w io.Writer, format string, todos []listedTodo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(todos)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(todos); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	done, active := color.New(color.FgGreen), color.New(color.FgYellow)
	left := 0
	for _, t := range todos {
		if t.Completed {
			_, _ = done.Fprintf(w, "[x] %s\n", t.Title)
			continue
		}
		left++
		_, _ = active.Fprintf(w, "[ ] %s\n", t.Title)
	}
	_, err := fmt.Fprintf(w, "%d shown, %d left\n", len(todos), left)
	return err
}
