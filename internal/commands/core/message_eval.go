package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dop251/goja"
	"github.com/keshon/support-bot/internal/core"
)

const redacted = "[REDACTED]"

type EvalCommand struct {
	Timeout time.Duration
	// Token is scrubbed from every output.
	Token string
}

func (c *EvalCommand) Name() string        { return "eval" }
func (c *EvalCommand) Description() string { return "Evaluates code" }
func (c *EvalCommand) Aliases() []string   { return []string{"ev"} }
func (c *EvalCommand) Category() string    { return "🛠️ Maintenance" }
func (c *EvalCommand) Usage() string       { return "<code> | ```<code>```" }
func (c *EvalCommand) Level() int          { return core.LevelOwner }
func (c *EvalCommand) Hidden() bool        { return false }
func (c *EvalCommand) UserPermissions() []int64 {
	return nil
}
func (c *EvalCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks}
}

func (c *EvalCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}
	session, msg := context.Session, context.Event.Message

	code, ok := context.Args().Remaining(false)
	if !ok {
		return core.Reply(session, msg, ":x: You must provide code to execute!")
	}
	script := core.ParseCodeblock(code)

	context.Logger.Warn().Str("user", msg.Author.Username).Str("script", script).Msg("eval")

	res := Evaluate(script, c.Timeout)
	res.Redact(c.Token)

	embed := evalEmbed(script, res)
	_, err := session.ChannelMessageSendEmbed(msg.ChannelID, embed)
	return err
}

type EvalResult struct {
	Output  string
	Stdout  string
	Err     error
	Elapsed time.Duration
}

// Redact replaces secret wherever it appears in the result.
func (r *EvalResult) Redact(secret string) {
	if secret == "" {
		return
	}
	r.Output = strings.ReplaceAll(r.Output, secret, redacted)
	r.Stdout = strings.ReplaceAll(r.Stdout, secret, redacted)
	if r.Err != nil && strings.Contains(r.Err.Error(), secret) {
		r.Err = errors.New(strings.ReplaceAll(r.Err.Error(), secret, redacted))
	}
}

// Evaluate runs script in a fresh JavaScript runtime. console.log output is
// collected in Stdout and the value of the last expression in Output. The
// script is interrupted once timeout elapses.
func Evaluate(script string, timeout time.Duration) EvalResult {
	vm := goja.New()

	var stdout strings.Builder
	console := vm.NewObject()
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = inspect(arg)
		}
		stdout.WriteString(strings.Join(parts, " "))
		stdout.WriteString("\n")
		return goja.Undefined()
	}
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		_ = console.Set(name, logFn)
	}
	_ = vm.Set("console", console)

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			vm.Interrupt(fmt.Sprintf("execution timed out after %s", timeout))
		})
		defer timer.Stop()
	}

	start := time.Now()
	v, err := vm.RunString(script)
	res := EvalResult{Stdout: stdout.String(), Err: err, Elapsed: time.Since(start)}
	if err == nil {
		res.Output = inspect(v)
	}
	return res
}

func inspect(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return ""
	}
	if goja.IsNull(v) {
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() != "Function" && obj.ClassName() != "Error" {
		if b, err := obj.MarshalJSON(); err == nil {
			return string(b)
		}
	}
	return v.String()
}

func evalEmbed(script string, res EvalResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Execution time: %dms", res.Elapsed.Milliseconds())},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if res.Output != "" {
		embed.Title = ":outbox_tray: Output:"
		embed.Description = core.WrapCodeblock(core.CleanText(core.Truncate(res.Output, 2000)), "js")
	}
	if res.Stdout != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  ":desktop: stdout",
			Value: core.WrapCodeblock(core.CleanText(core.Truncate(res.Stdout, 1000)), "js"),
		})
	}
	if res.Err != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  ":warning: stderr",
			Value: core.WrapCodeblock(core.CleanText(core.Truncate(res.Err.Error(), 1000)), "js"),
		})
	}
	if len(embed.Fields) == 0 && embed.Description == "" {
		embed.Title = "Nothing was returned."
	}

	switch {
	case res.Err == nil:
		embed.Color = core.ColorSuccess
	case res.Output == "" && res.Stdout == "":
		embed.Color = core.ColorWarning
	default:
		embed.Color = core.ColorError
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  ":inbox_tray: Input",
		Value: core.WrapCodeblock(core.CleanText(core.Truncate(script, 1000)), "js"),
	})
	return embed
}
