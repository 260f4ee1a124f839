// Package todo implements a page object for the TodoMVC (typescript-angular) application.
// All state lives in the rendered page, every query re-resolves its locators against the live DOM.
package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"

	"github.com/umputun/todocheck/fixture"
)

// DefaultTimeout is the bounded wait used by query operations.
const DefaultTimeout = 3 * time.Second

// DefaultStorageKey is the localStorage key used by the application to persist todos.
const DefaultStorageKey = "todos-angularjs-typescript"

// Page wraps a live browser page showing the todo application.
type Page struct {
	page       playwright.Page
	timeout    time.Duration
	storageKey string

	newTodo         playwright.Locator
	listItems       playwright.Locator
	allFilter       playwright.Locator
	activeFilter    playwright.Locator
	completedFilter playwright.Locator
	clearCompleted  playwright.Locator
	toggleAll       playwright.Locator
	toggleAllLabel  playwright.Locator
	lastItem        playwright.Locator
	activeInput     playwright.Locator
}

// Option customizes Page.
type Option func(p *Page)

// WithTimeout sets the bounded wait for query operations.
func WithTimeout(d time.Duration) Option {
	return func(p *Page) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithStorageKey sets the name (or part of it) of the persisted todo entry.
func WithStorageKey(key string) Option {
	return func(p *Page) { p.storageKey = key }
}

// New makes Page for the given playwright page. The page is not owned by Page and not closed by it.
func New(page playwright.Page, opts ...Option) *Page {
	res := &Page{page: page, timeout: DefaultTimeout, storageKey: DefaultStorageKey}
	for _, opt := range opts {
		opt(res)
	}

	res.newTodo = page.GetByPlaceholder("What needs to be done?")
	res.listItems = page.Locator(".todo-list").GetByRole("listitem")
	res.allFilter = res.filterLink(FilterAll)
	res.activeFilter = res.filterLink(FilterActive)
	res.completedFilter = res.filterLink(FilterCompleted)
	res.clearCompleted = page.GetByRole("button", playwright.PageGetByRoleOptions{Name: "Clear completed"})
	res.toggleAll = page.Locator("#toggle-all")
	res.toggleAllLabel = page.Locator(`label[for="toggle-all"]`)
	res.lastItem = page.Locator(".todo-list li").Last()
	res.activeInput = page.Locator(".todo-list li.editing input.edit")
	return res
}

// AddNewTodo fills the entry box with text and submits it with Enter.
func (p *Page) AddNewTodo(text string) error {
	lgr.Printf("[DEBUG] add todo %q", text)
	if err := p.newTodo.Fill(text); err != nil {
		return fmt.Errorf("failed to fill new todo %q: %w", text, err)
	}
	if err := p.newTodo.Press("Enter"); err != nil {
		return fmt.Errorf("failed to submit new todo %q: %w", text, err)
	}
	return nil
}

// TypeNewTodo types text into the entry box key by key and submits it with Enter.
func (p *Page) TypeNewTodo(text string) error {
	lgr.Printf("[DEBUG] type todo %q", text)
	if err := p.newTodo.PressSequentially(text); err != nil {
		return fmt.Errorf("failed to type new todo %q: %w", text, err)
	}
	if err := p.newTodo.Press("Enter"); err != nil {
		return fmt.Errorf("failed to submit new todo %q: %w", text, err)
	}
	return nil
}

// AddMultipleTodos adds count todos named base1, base2, ..., baseN in this order.
func (p *Page) AddMultipleTodos(count int, base string) error {
	return p.addAll(fixture.Strings(count, base, true))
}

// AddIdenticalTodos adds count todos, all named base.
func (p *Page) AddIdenticalTodos(count int, base string) error {
	return p.addAll(fixture.Strings(count, base, false))
}

func (p *Page) addAll(texts []string) error {
	for _, text := range texts {
		if err := p.AddNewTodo(text); err != nil {
			return err
		}
	}
	return nil
}

// EditTodo puts the todo matching oldText into edit mode, replaces its text with newText
// and finishes editing with the given method. SaveEscape discards the change.
func (p *Page) EditTodo(oldText, newText string, method SaveMethod) error {
	if err := method.validate(); err != nil {
		return err
	}
	lgr.Printf("[DEBUG] edit todo %q -> %q, %s", oldText, newText, method)

	if err := p.EnterEditMode(oldText); err != nil {
		return err
	}
	if err := p.activeInput.Fill(newText); err != nil {
		return fmt.Errorf("failed to fill edited todo %q: %w", oldText, err)
	}

	var err error
	switch method {
	case SaveBlur:
		err = p.activeInput.Blur()
	case SaveEnter:
		err = p.activeInput.Press("Enter")
	case SaveEscape:
		err = p.activeInput.Press("Escape")
	}
	if err != nil {
		return fmt.Errorf("failed to finish editing of %q with %s: %w", oldText, method, err)
	}
	return nil
}

// EnterEditMode double-clicks the todo matching text.
func (p *Page) EnterEditMode(text string) error {
	if err := p.item(text).Locator("label").Dblclick(); err != nil {
		return fmt.Errorf("failed to enter edit mode for %q: %w", text, err)
	}
	return nil
}

// FillActiveEntryBox replaces the text of the todo being edited, without finishing the edit.
func (p *Page) FillActiveEntryBox(text string) error {
	if err := p.activeInput.Fill(text); err != nil {
		return fmt.Errorf("failed to fill active entry box: %w", err)
	}
	return nil
}

// MarkAsCompletedByText checks the completed checkbox of each todo. Checking a completed todo is a no-op.
func (p *Page) MarkAsCompletedByText(texts ...string) error {
	for _, text := range texts {
		lgr.Printf("[DEBUG] mark %q as completed", text)
		if err := p.item(text).GetByRole("checkbox").Check(); err != nil {
			return fmt.Errorf("failed to mark %q as completed: %w", text, err)
		}
	}
	return nil
}

// ToggleCompletedByText clicks the completed checkbox of the todo, flipping its state.
func (p *Page) ToggleCompletedByText(text string) error {
	lgr.Printf("[DEBUG] toggle %q", text)
	if err := p.item(text).GetByRole("checkbox").Click(); err != nil {
		return fmt.Errorf("failed to toggle %q: %w", text, err)
	}
	return nil
}

// ClickToggleAll marks all todos completed, or all active if every todo is completed already.
func (p *Page) ClickToggleAll() error {
	lgr.Printf("[DEBUG] toggle all")
	if err := p.toggleAllLabel.Click(); err != nil {
		return fmt.Errorf("failed to click toggle all: %w", err)
	}
	return nil
}

// MarkAllAsCompleted uses toggle-all to complete every todo, unless all are completed already.
func (p *Page) MarkAllAsCompleted() error {
	checked, err := p.IsToggleAllChecked()
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return p.ClickToggleAll()
}

// ClearCompleted removes all completed todos.
func (p *Page) ClearCompleted() error {
	lgr.Printf("[DEBUG] clear completed")
	if err := p.clearCompleted.Click(); err != nil {
		return fmt.Errorf("failed to clear completed: %w", err)
	}
	return nil
}

// HoverOverTodoByText moves the mouse over the todo, revealing its remove button.
func (p *Page) HoverOverTodoByText(text string) error {
	if err := p.item(text).Hover(); err != nil {
		return fmt.Errorf("failed to hover over %q: %w", text, err)
	}
	return nil
}

// DeleteTodosByText removes each todo with its remove button.
func (p *Page) DeleteTodosByText(texts ...string) error {
	for _, text := range texts {
		lgr.Printf("[DEBUG] delete %q", text)
		if err := p.HoverOverTodoByText(text); err != nil {
			return err
		}
		if err := p.item(text).Locator(".destroy").Click(); err != nil {
			return fmt.Errorf("failed to delete %q: %w", text, err)
		}
	}
	return nil
}

// FilterByButton clicks the footer link of the filter.
func (p *Page) FilterByButton(f Filter) error {
	if err := f.validate(); err != nil {
		return err
	}
	lgr.Printf("[DEBUG] filter by %s", f)
	if err := p.link(f).Click(); err != nil {
		return fmt.Errorf("failed to filter by %s: %w", f, err)
	}
	return nil
}

// CheckFilterSelected reports whether the footer link of the filter is marked as selected.
func (p *Page) CheckFilterSelected(f Filter) (bool, error) {
	if err := f.validate(); err != nil {
		return false, err
	}
	class, err := p.link(f).GetAttribute("class", playwright.LocatorGetAttributeOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to get class of %s filter: %w", f, err)
	}
	return hasClass(class, "selected"), nil
}

// LocateTodoBySubstring returns a deferred locator of todos containing text. It may match any number of todos.
func (p *Page) LocateTodoBySubstring(text string) playwright.Locator {
	return p.item(text)
}

// CheckTodoPresentByText reports whether a todo containing text shows up within the bounded wait.
func (p *Page) CheckTodoPresentByText(text string) bool {
	_, err := p.item(text).First().InnerText(playwright.LocatorInnerTextOptions{Timeout: p.timeoutMs()})
	return err == nil
}

// CheckTodoPresentByTextAndIsTrimmed reports whether a todo matching text shows up within the bounded wait
// and its displayed text has no surrounding whitespace. Matching ignores surrounding whitespace of text.
func (p *Page) CheckTodoPresentByTextAndIsTrimmed(text string) bool {
	label := p.item(text).First().Locator("label")
	shown, err := label.TextContent(playwright.LocatorTextContentOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false
	}
	return fixture.IsTrimmed(shown)
}

// CheckTodoTrimmedInEditMode enters edit mode for the todo and reports whether the edit field
// value has no surrounding whitespace. The todo stays in edit mode.
func (p *Page) CheckTodoTrimmedInEditMode(text string) (bool, error) {
	if err := p.EnterEditMode(text); err != nil {
		return false, err
	}
	val, err := p.activeInput.InputValue(playwright.LocatorInputValueOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to read edit field of %q: %w", text, err)
	}
	return fixture.IsTrimmed(val), nil
}

// CheckAnyTodosPresent reports whether any todo becomes visible within the bounded wait.
func (p *Page) CheckAnyTodosPresent() bool {
	return p.visibleWithin(p.page.Locator(".todo-list .view").First())
}

// CheckPresenceOfClass reports whether an element with the css class becomes visible within the bounded wait.
func (p *Page) CheckPresenceOfClass(className string) bool {
	return p.visibleWithin(p.page.Locator("." + className).First())
}

// CheckCompletedCheckboxIsClickable reports whether the completed checkbox of the first todo
// can be clicked within the bounded wait. Nothing is clicked.
func (p *Page) CheckCompletedCheckboxIsClickable() bool {
	return p.clickableWithin(p.page.Locator(".todo-list .toggle").First())
}

// CheckDeleteTodoButtonIsClickable hovers over the last todo and reports whether its remove button
// can be clicked within the bounded wait. Nothing is removed.
func (p *Page) CheckDeleteTodoButtonIsClickable() bool {
	if err := p.lastItem.Hover(playwright.LocatorHoverOptions{Timeout: p.timeoutMs()}); err != nil {
		return false
	}
	return p.clickableWithin(p.lastItem.Locator(".destroy"))
}

// CheckTodoCompletedByText reports whether the todo is marked as completed.
func (p *Page) CheckTodoCompletedByText(text string) (bool, error) {
	return p.itemHasClass(text, "completed")
}

// CheckTodosCompletedByText reports whether every listed todo is marked as completed.
func (p *Page) CheckTodosCompletedByText(texts ...string) (bool, error) {
	for _, text := range texts {
		completed, err := p.itemHasClass(text, "completed")
		if err != nil || !completed {
			return false, err
		}
	}
	return true, nil
}

// CheckTodosActiveByText reports whether none of the listed todos is marked as completed.
func (p *Page) CheckTodosActiveByText(texts ...string) (bool, error) {
	for _, text := range texts {
		completed, err := p.itemHasClass(text, "completed")
		if err != nil || completed {
			return false, err
		}
	}
	return true, nil
}

// CheckTodoBeingEditedByText reports whether the todo is in edit mode.
func (p *Page) CheckTodoBeingEditedByText(text string) (bool, error) {
	return p.itemHasClass(text, "editing")
}

// IsToggleAllChecked returns the state of the toggle-all checkbox.
func (p *Page) IsToggleAllChecked() (bool, error) {
	checked, err := p.toggleAll.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to get toggle all state: %w", err)
	}
	return checked, nil
}

// GetInputBox returns a deferred locator of the edit field of the todo.
func (p *Page) GetInputBox(text string) playwright.Locator {
	return p.item(text).GetByRole("textbox")
}

// GetEntryBox returns the locator of the new todo entry box.
func (p *Page) GetEntryBox() playwright.Locator {
	return p.newTodo
}

// GetLastItemFromList returns the locator of the last todo in the list.
func (p *Page) GetLastItemFromList() playwright.Locator {
	return p.lastItem
}

// CheckInputBoxEmpty reports whether the new todo entry box is empty.
func (p *Page) CheckInputBoxEmpty() (bool, error) {
	val, err := p.newTodo.InputValue(playwright.LocatorInputValueOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to read entry box: %w", err)
	}
	return val == "", nil
}

// CheckTodoAppendedToList adds a todo and reports whether it shows up, trimmed, as the last one.
func (p *Page) CheckTodoAppendedToList(text string) (bool, error) {
	if err := p.AddNewTodo(text); err != nil {
		return false, err
	}
	shown, err := p.lastItem.Locator("label").TextContent(playwright.LocatorTextContentOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to read last todo: %w", err)
	}
	return shown == fixture.Trim(text), nil
}

// VisibleTodoTexts returns texts of the todos currently rendered, in list order.
func (p *Page) VisibleTodoTexts() ([]string, error) {
	texts, err := p.page.Locator(".todo-list li label").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("failed to read todo list: %w", err)
	}
	return texts, nil
}

// BodyScreenshot returns png screenshot of the page body.
func (p *Page) BodyScreenshot() ([]byte, error) {
	img, err := p.page.Locator("body").Screenshot()
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return img, nil
}

// item returns list items containing text
func (p *Page) item(text string) playwright.Locator {
	return p.listItems.Filter(playwright.LocatorFilterOptions{HasText: text})
}

func (p *Page) link(f Filter) playwright.Locator {
	switch f {
	case FilterActive:
		return p.activeFilter
	case FilterCompleted:
		return p.completedFilter
	default:
		return p.allFilter
	}
}

func (p *Page) filterLink(f Filter) playwright.Locator {
	return p.page.GetByRole("link", playwright.PageGetByRoleOptions{Name: f.linkName(), Exact: playwright.Bool(true)})
}

func (p *Page) itemHasClass(text, class string) (bool, error) {
	attr, err := p.item(text).GetAttribute("class", playwright.LocatorGetAttributeOptions{Timeout: p.timeoutMs()})
	if err != nil {
		return false, fmt.Errorf("failed to get class of %q: %w", text, err)
	}
	return hasClass(attr, class), nil
}

func (p *Page) visibleWithin(loc playwright.Locator) bool {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeoutMs(),
	})
	return err == nil
}

func (p *Page) clickableWithin(loc playwright.Locator) bool {
	err := loc.Click(playwright.LocatorClickOptions{Trial: playwright.Bool(true), Timeout: p.timeoutMs()})
	return err == nil
}

func (p *Page) timeoutMs() *float64 {
	return playwright.Float(float64(p.timeout.Milliseconds()))
}

// hasClass checks if classAttr contains the exact css class token
func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
