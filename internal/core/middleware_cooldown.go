package core

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const cooldownEntries = 4096

// WithCooldown lets each user run the command once per d. Bot owners and
// callers outside any context are not limited.
func WithCooldown(d time.Duration) Middleware {
	return func(cmd Command) Command {
		if d <= 0 {
			return cmd
		}
		limiters := expirable.NewLRU[string, *rate.Limiter](cooldownEntries, nil, 10*d)

		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if !ok || inv.userID == "" || inv.level >= LevelOwner {
					return cmd.Run(ctx)
				}

				lim, found := limiters.Get(inv.userID)
				if !found {
					lim = rate.NewLimiter(rate.Every(d), 1)
					limiters.Add(inv.userID, lim)
				}

				r := lim.Reserve()
				if wait := r.Delay(); wait > 0 {
					r.Cancel()
					return NewUserError(fmt.Sprintf(":hourglass: Slow down, try `%s` again in %s.", cmd.Name(), wait.Round(100*time.Millisecond)))
				}
				return cmd.Run(ctx)
			},
		}
	}
}
