package core

import (
	"slices"
	"strings"

	"github.com/keshon/support-bot/internal/core"
)

var reloadTargets = []string{"filter", "faq"}

type ReloadCommand struct{}

func (c *ReloadCommand) Name() string        { return "reload" }
func (c *ReloadCommand) Description() string { return "Reloads the filter data and the FAQ" }
func (c *ReloadCommand) Aliases() []string   { return nil }
func (c *ReloadCommand) Category() string    { return "🛠️ Maintenance" }
func (c *ReloadCommand) Usage() string       { return "[filter|faq|all]" }
func (c *ReloadCommand) Level() int          { return core.LevelOwner }
func (c *ReloadCommand) Hidden() bool        { return false }
func (c *ReloadCommand) UserPermissions() []int64 {
	return nil
}
func (c *ReloadCommand) BotPermissions() []int64 {
	return nil
}

func (c *ReloadCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}

	targets, err := reloadSelection(context.Args().Args())
	if err != nil {
		return err
	}

	var done []string
	for _, target := range targets {
		switch target {
		case "filter":
			if context.Filter == nil {
				continue
			}
			if err := context.Filter.Reload(); err != nil {
				return err
			}
		case "faq":
			if context.FAQ == nil {
				continue
			}
			context.FAQ.Purge()
		}
		done = append(done, "> "+core.WrapInlineCode(target))
	}

	if context.Events != nil {
		context.Events.Publish(core.SystemEvent{Type: core.SystemEventReload, Requester: context.Event.Author.ID})
	}

	if len(done) == 0 {
		return core.Reply(context.Session, context.Event.Message, "Nothing to reload.")
	}
	return core.Reply(context.Session, context.Event.Message, "Reloaded:\n"+strings.Join(done, "\n"))
}

// reloadSelection maps the arguments to reload targets; none or "all"
// selects every target.
func reloadSelection(args []string) ([]string, error) {
	if len(args) == 0 {
		return reloadTargets, nil
	}
	seen := map[string]bool{}
	var out []string
	for _, a := range args {
		a = strings.ToLower(a)
		if a == "all" {
			return reloadTargets, nil
		}
		if !slices.Contains(reloadTargets, a) {
			return nil, core.NewUserError("No such target " + core.WrapInlineCode(core.CleanText(a)) + ", use `filter`, `faq` or `all`.")
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out, nil
}
