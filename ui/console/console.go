// Package console is a line based user interface for browsing and editing categories.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/event"
	"vincit.fi/game-shelf/common/logger"
	"vincit.fi/game-shelf/common/query"
)

const renameSeparator = "="

var errQuit = errors.New("quit")

type Console struct {
	collection api.CategoryCollection
	mutator    api.CategoryMutator
	engine     *query.Engine
	in         io.Reader
	out        io.Writer

	// Guards everything below and writes to out
	mutex         sync.Mutex
	view          apitype.ViewState
	pendingName   string
	pendingDelete *apitype.Category
}

var _ api.Gui = (*Console)(nil)

func NewConsole(collection api.CategoryCollection, mutator api.CategoryMutator, engine *query.Engine, in io.Reader, out io.Writer) *Console {
	return &Console{
		collection: collection,
		mutator:    mutator,
		engine:     engine,
		in:         in,
		out:        out,
		view:       apitype.NewViewState(),
	}
}

// Connect subscribes the console to the topics it renders.
func (s *Console) Connect(broker *event.Broker) {
	broker.ConnectToGui(api.CategoriesUpdated, s.Dispatch, s.UpdateCategories)
	broker.ConnectToGui(api.CategoryCreated, s.Dispatch, s.CategoryChanged)
	broker.ConnectToGui(api.CategoryDeleted, s.Dispatch, s.CategoryChanged)
	broker.ConnectToGui(api.CategoryRenamed, s.Dispatch, s.CategoryChanged)
	broker.ConnectToGui(api.ShowError, s.Dispatch, s.ShowError)
}

// Dispatch runs fn while holding the console lock so event callbacks never interleave with commands.
func (s *Console) Dispatch(fn func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fn()
}

func (s *Console) UpdateCategories(command *api.UpdateCategoriesCommand) {
	logger.Debug.Printf("Categories updated: %d", len(command.Categories))
	s.render(command.Categories)
}

func (s *Console) CategoryChanged(command *api.CategoryChangedCommand) {
	if command.Category == nil {
		s.println("Category deleted")
	} else {
		s.printf("Category %sd: %s\n", command.Operation, command.Category.Name())
	}
}

func (s *Console) ShowError(command *api.ErrorCommand) {
	if command.Err != nil {
		s.printf("Error: %s: %s\n", command.Message, command.Err)
	} else {
		s.printf("Error: %s\n", command.Message)
	}
}

// Run loads the categories and reads commands until quit, end of input or cancellation.
func (s *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// Failures are reported through the error topic.
		_ = s.collection.Refresh(groupCtx)
		return nil
	})
	group.Go(func() error {
		s.Dispatch(s.printHelp)
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if err := s.Execute(groupCtx, line); errors.Is(err, errQuit) {
					return nil
				}
			}
		}
	})
	return group.Wait()
}

// Execute runs a single command line. Returns errQuit when the user wants to leave.
func (s *Console) Execute(ctx context.Context, line string) error {
	s.mutex.Lock()
	pendingDelete := s.pendingDelete
	s.pendingDelete = nil
	s.mutex.Unlock()

	if pendingDelete != nil {
		s.delete(ctx, pendingDelete, isYes(line))
		return nil
	}

	command, rest := splitCommand(line)
	switch command {
	case "":
	case "help", "?":
		s.Dispatch(s.printHelp)
	case "list", "ls":
		s.Dispatch(s.renderCurrent)
	case "search", "find":
		s.Dispatch(func() {
			s.view.Query = rest
			s.renderCurrent()
		})
	case "sort":
		s.Dispatch(func() {
			s.sort(rest)
		})
	case "new", "add":
		s.create(ctx, rest)
	case "retry":
		s.mutex.Lock()
		name := s.pendingName
		s.mutex.Unlock()
		if name == "" {
			s.Dispatch(func() { s.println("Nothing to retry") })
		} else {
			s.create(ctx, name)
		}
	case "rm", "delete":
		s.confirmDelete(ctx, rest)
	case "rename", "mv":
		s.rename(ctx, rest)
	case "refresh":
		if err := s.collection.Refresh(ctx); err != nil {
			logger.Debug.Printf("Refresh failed: %s", err)
		}
	case "quit", "exit", "q":
		return errQuit
	default:
		s.Dispatch(func() { s.printf("Unknown command '%s'. Type 'help' for commands.\n", command) })
	}
	return nil
}

func (s *Console) sort(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.printf("Sorted by %s (%s)\n", s.view.SortKey, s.view.Direction)
		return
	}

	key, ok := apitype.SortKeyFromString(fields[0])
	if !ok {
		s.printf("Unknown sort key '%s'. Use one of %v\n", fields[0], apitype.SortKeys())
		return
	}

	if len(fields) > 1 {
		if direction, ok := apitype.SortDirectionFromString(fields[1]); ok {
			s.view.Direction = direction
		} else {
			s.printf("Unknown direction '%s'. Use asc or desc\n", fields[1])
			return
		}
	} else if key == s.view.SortKey {
		s.view.Direction = s.view.Direction.Toggle()
	} else {
		s.view.Direction = apitype.Ascending
	}
	s.view.SortKey = key
	s.renderCurrent()
}

// create keeps the entered name until the create succeeds so that it can be retried.
func (s *Console) create(ctx context.Context, name string) {
	s.mutex.Lock()
	s.pendingName = name
	s.mutex.Unlock()

	result, err := s.mutator.Create(ctx, name)

	s.Dispatch(func() {
		if err != nil {
			s.printMutationError(err)
			if !isRejected(err) {
				s.println("Type 'retry' to try again")
			}
			return
		}
		s.pendingName = ""
		s.printStale(result)
	})
}

func (s *Console) confirmDelete(ctx context.Context, name string) {
	category := s.find(name)
	if category == nil {
		s.Dispatch(func() { s.printf("No category named '%s'\n", name) })
		return
	}
	if category.IsSystem() {
		// Rejected by the mutator without asking
		s.delete(ctx, category, true)
		return
	}

	s.Dispatch(func() {
		s.pendingDelete = category
		s.printf("Delete '%s' (%d games)? [y/N] ", category.Name(), category.GameCount())
	})
}

func (s *Console) delete(ctx context.Context, category *apitype.Category, confirmed bool) {
	result, err := s.mutator.Delete(ctx, category, confirmed)
	s.Dispatch(func() {
		if errors.Is(err, api.ErrNotConfirmed) {
			s.println("Cancelled")
		} else if err != nil {
			s.printMutationError(err)
		} else {
			s.printStale(result)
		}
	})
}

func (s *Console) rename(ctx context.Context, args string) {
	oldName, newName, found := strings.Cut(args, renameSeparator)
	if !found {
		s.Dispatch(func() { s.println("Usage: rename <name> = <new name>") })
		return
	}

	category := s.find(oldName)
	if category == nil {
		s.Dispatch(func() { s.printf("No category named '%s'\n", strings.TrimSpace(oldName)) })
		return
	}

	result, err := s.mutator.Rename(ctx, category, newName)
	s.Dispatch(func() {
		if err != nil {
			s.printMutationError(err)
		} else {
			s.printStale(result)
		}
	})
}

func (s *Console) find(name string) *apitype.Category {
	name = strings.TrimSpace(name)
	for _, category := range s.collection.CurrentSnapshot() {
		if category != nil && strings.EqualFold(category.Name(), name) {
			return category
		}
	}
	return nil
}

func (s *Console) renderCurrent() {
	s.render(s.collection.CurrentSnapshot())
}

func (s *Console) render(snapshot []*apitype.Category) {
	state := s.collection.State()
	if state != api.Ready && len(snapshot) == 0 {
		if s.collection.IsStale() {
			s.println("Could not load categories. Type 'refresh' to try again.")
		} else {
			s.println("Loading categories...")
		}
		return
	}

	categories := s.engine.DeriveView(snapshot, s.view)
	header := fmt.Sprintf("%d of %d categories, sorted by %s (%s)", len(categories), len(snapshot), s.view.SortKey, s.view.Direction)
	if s.view.Query != "" {
		header += fmt.Sprintf(", search '%s'", s.view.Query)
	}
	if s.collection.IsStale() {
		header += ", may be out of date"
	}
	s.println(header)

	if len(snapshot) == 0 {
		s.println("  No categories. Create one with 'new <name>'.")
	} else if len(categories) == 0 {
		s.printf("  No categories match '%s'\n", s.view.Query)
	}
	for _, category := range categories {
		s.printf("  %-32s %5d games  %s\n", category.String(), category.GameCount(), category.UpdatedAt())
	}
}

func (s *Console) printMutationError(err error) {
	var mutationErr *api.MutationError
	if errors.As(err, &mutationErr) && mutationErr.IsRejected() {
		s.printf("Not allowed: %s\n", mutationErr.Err)
	} else {
		s.printf("Failed: %s\n", err)
	}
}

func (s *Console) printStale(result *api.MutationResult) {
	if result != nil && result.IsStale() {
		s.println("Saved, but the list could not be refreshed and may be out of date. Type 'refresh' to try again.")
	}
}

func (s *Console) printHelp() {
	s.println("Commands:")
	s.println("  list                       show categories")
	s.println("  search <text>              filter by name, empty text clears")
	s.println("  sort <key> [asc|desc]      keys: name, game_count, created_at, updated_at")
	s.println("  new <name>                 create a category")
	s.println("  retry                      retry the last failed create")
	s.println("  rm <name>                  delete a category")
	s.println("  rename <name> = <new name> rename a category")
	s.println("  refresh                    reload categories")
	s.println("  quit")
}

func (s *Console) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		logger.Warn.Printf("Could not write output: %s", err)
	}
}

func (s *Console) println(line string) {
	s.printf("%s\n", line)
}

func splitCommand(line string) (string, string) {
	command, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(command), strings.TrimSpace(rest)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func isRejected(err error) bool {
	var mutationErr *api.MutationError
	return errors.As(err, &mutationErr) && mutationErr.IsRejected()
}
