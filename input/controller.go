package input

import (
	"strings"
	"time"

	"github.com/fireredbridge/corebridge/collision"
	"github.com/fireredbridge/corebridge/dialog"
	"github.com/fireredbridge/corebridge/log"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
	"github.com/fireredbridge/corebridge/statebuilder"
)

// StateSummary is the lightweight before/after observation attached to
// every step record.
type StateSummary struct {
	X                 int           `json:"x"`
	Y                 int           `json:"y"`
	Facing            schema.Facing `json:"facing"`
	MapGroup          uint8         `json:"mapGroup"`
	MapNum            uint8         `json:"mapNum"`
	InDialog          bool          `json:"inDialog"`
	MenuType          string        `json:"menuType"`
	InBattle          bool          `json:"inBattle"`
	AllControlsLocked bool          `json:"allControlsLocked"`
}

func summarize(player statebuilder.Player, dlg dialog.State, inBattle, locked bool) StateSummary {
	return StateSummary{
		X:                 player.X,
		Y:                 player.Y,
		Facing:            player.Facing,
		MapGroup:          player.MapGroup,
		MapNum:            player.MapNum,
		InDialog:          dlg.InDialog,
		MenuType:          dlg.MenuType,
		InBattle:          inBattle,
		AllControlsLocked: locked,
	}
}

func summarizeLite(s statebuilder.LiteState) StateSummary {
	return summarize(s.Player, s.Dialog, s.InBattle, s.AllControlsLocked)
}

func summarizeSnapshot(s statebuilder.Snapshot) StateSummary {
	return summarize(s.Player, s.Dialog, s.Battle.IsActive, s.AllControlsLocked)
}

func sameMapAndPosition(a, b StateSummary) bool {
	return a.MapGroup == b.MapGroup && a.MapNum == b.MapNum && a.X == b.X && a.Y == b.Y
}

func inOverworld(s StateSummary) bool {
	return !s.InDialog && !s.InBattle
}

// meaningfulChange reports whether the loop has observed a state
// transition worth ending the wait for.
func meaningfulChange(before, after StateSummary) bool {
	if after.AllControlsLocked && !before.AllControlsLocked {
		return true
	}
	return before.X != after.X || before.Y != after.Y ||
		before.MapGroup != after.MapGroup || before.MapNum != after.MapNum ||
		before.InDialog != after.InDialog || before.MenuType != after.MenuType ||
		before.InBattle != after.InBattle
}

// WaitInfo records what the per-step wait loop observed.
type WaitInfo struct {
	ChangeObserved    bool `json:"changeObserved"`
	LockObserved      bool `json:"lockObserved"`
	LockClearedInTime bool `json:"lockClearedInTime"`
	IdleQueueObserved bool `json:"idleQueueObserved"`
}

// Trace is the fog/visible-text delta attached to one step.
type Trace struct {
	VisibleTextStates []string                    `json:"visibleTextStates,omitempty"`
	TilesDiscovered   int                         `json:"tilesDiscovered"`
	GroundWallChanged []statebuilder.GroundChange `json:"groundWallChanged"`
}

// StepResult is one entry of a sendCommands response.
type StepResult struct {
	Index      int          `json:"index"`
	Type       Kind         `json:"type"`
	Command    string       `json:"command"`
	OK         bool         `json:"ok"`
	Error      string       `json:"error,omitempty"`
	Before     StateSummary `json:"before"`
	After      StateSummary `json:"after"`
	MGBAStatus string       `json:"mgba,omitempty"`
	Wait       WaitInfo     `json:"wait"`
	Trace      Trace        `json:"trace"`
	MS         int64        `json:"ms"`
}

// RunResult is the top-level outcome of one sendCommands call.
type RunResult struct {
	OK                     bool         `json:"ok"`
	Status                 string       `json:"status"`
	StartedInDialog        bool         `json:"startedInDialog"`
	StartedInBattle        bool         `json:"startedInBattle"`
	InterruptedByDialog    bool         `json:"interruptedByDialog"`
	InterruptedByBattle    bool         `json:"interruptedByBattle"`
	InterruptedByCollision bool         `json:"interruptedByCollision"`
	RemainingKeys          []Command    `json:"remaining_keys"`
	Results                []StepResult `json:"results"`
}

// Controller drives the command list against the emulator, observing
// state through the same Builder the snapshot endpoint uses so the
// fog-of-war grid, map caches and dialog cache all stay consistent
// with a single cooperative worker.
type Controller struct {
	client  *memory.Client
	builder *statebuilder.Builder
	overlay statebuilder.OverlayConfig
	logger  log.Logger
	clock   clock

	collisionStreak int
}

// NewController returns a Controller ready to run commands. A nil
// logger falls back to the package-wide global logger.
func NewController(client *memory.Client, builder *statebuilder.Builder, overlay statebuilder.OverlayConfig, logger log.Logger) *Controller {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Controller{client: client, builder: builder, overlay: overlay, logger: logger, clock: realClock()}
}

// collisionStreakLimit is the number of consecutive no-op directional
// controls (same map, same position, overworld before and after) that
// stop a sequence with interruptedByCollision=true.
const collisionStreakLimit = 5

// Run executes commands in order, stopping early on interruption or a
// collision streak.
func (c *Controller) Run(commands []Command) (RunResult, error) {
	initial, err := c.builder.ReadLite()
	if err != nil {
		return RunResult{}, err
	}
	result := RunResult{
		OK:              true,
		Status:          "ok",
		StartedInDialog: initial.Dialog.InDialog,
		StartedInBattle: initial.InBattle,
	}

	for i, cmd := range commands {
		step, err := c.step(i, cmd)
		if err != nil {
			result.Results = append(result.Results, step)
			result.OK = false
			result.Status = "error"
			result.RemainingKeys = commands[i+1:]
			return result, nil
		}
		result.Results = append(result.Results, step)

		if inOverworld(step.Before) && (step.After.InDialog || step.After.InBattle) {
			if step.After.InDialog {
				result.InterruptedByDialog = true
			}
			if step.After.InBattle {
				result.InterruptedByBattle = true
			}
			if cmd.IsDirectional() && sameMapAndPosition(step.Before, step.After) {
				// The scripted transition consumed the trigger tile, not
				// this command — requeue it verbatim.
				result.RemainingKeys = append([]Command{cmd}, commands[i+1:]...)
			} else {
				result.RemainingKeys = commands[i+1:]
			}
			return result, nil
		}

		if cmd.IsDirectional() && inOverworld(step.Before) && inOverworld(step.After) && sameMapAndPosition(step.Before, step.After) {
			c.collisionStreak++
		} else {
			c.collisionStreak = 0
		}
		if c.collisionStreak >= collisionStreakLimit {
			result.InterruptedByCollision = true
			result.RemainingKeys = commands[i+1:]
			return result, nil
		}
	}

	return result, nil
}

// step runs one command through the full per-step loop: optional
// pre-passability capture, dispatch, wait, lock-grace, lock-clear, and
// post-state capture with its fog hook.
func (c *Controller) step(index int, cmd Command) (StepResult, error) {
	start := c.clock.now()

	if cmd.Kind == KindControl && cmd.Name == "a_until_end_of_dialog" {
		return c.runAUntilEndOfDialog(index, start)
	}

	before, err := c.builder.ReadLite()
	if err != nil {
		return StepResult{}, err
	}
	beforeSummary := summarizeLite(before)

	var preMask []bool
	var preW, preH int
	capturePassability := cmd.IsALike() && inOverworld(beforeSummary)
	if capturePassability {
		preMask, preW, preH = c.passabilityMask(before.Player.Elevation, before.Player.Surfing)
	}

	step := StepResult{Index: index, Type: cmd.Kind, Command: cmd.String(), Before: beforeSummary}

	execErr := c.execute(cmd, &step)
	step.OK = execErr == nil
	if execErr != nil {
		step.Error = execErr.Error()
	}

	step.Wait = c.waitForSettledState(cmd, beforeSummary)

	after, err := c.builder.Build(c.overlay)
	if err != nil {
		return step, err
	}
	step.After = summarizeSnapshot(after)

	step.Trace.TilesDiscovered = after.TilesDiscovered
	step.Trace.GroundWallChanged = append([]statebuilder.GroundChange(nil), after.GroundChanges...)
	if capturePassability && !after.FogShapeMismatch {
		postMask, postW, postH := c.passabilityMask(after.Player.Elevation, after.Player.Surfing)
		if postW == preW && postH == preH {
			step.Trace.GroundWallChanged = append(step.Trace.GroundWallChanged, diffMasks(preMask, postMask, preW)...)
		}
	}
	if after.FogShapeMismatch {
		step.Trace.TilesDiscovered = 0
		step.Trace.GroundWallChanged = nil
	}

	step.MS = c.clock.now().Sub(start).Milliseconds()
	c.logger.Debug("input step", log.F("index", index), log.F("type", string(cmd.Kind)), log.F("ok", step.OK), log.F("ms", step.MS))
	return step, nil
}

// execute dispatches one command through the memory client.
func (c *Controller) execute(cmd Command, step *StepResult) error {
	switch cmd.Kind {
	case KindPress:
		return c.client.Press(cmd.Buttons)
	case KindHold:
		return c.client.Hold(cmd.Button, cmd.Frames)
	case KindControl:
		return c.client.Control(cmd.Name)
	case KindControlStatus:
		status, err := c.client.ControlStatus()
		step.MGBAStatus = status
		return err
	default:
		return nil
	}
}

// waitForSettledState waits for a meaningful change or lock, runs a
// short lock-grace window for a delayed lock transition, then (if
// locked) waits for the lock to clear.
func (c *Controller) waitForSettledState(cmd Command, before StateSummary) WaitInfo {
	info := WaitInfo{}

	primaryTimeout := changeTimeout(cmd)
	if cmd.IsDirectional() {
		primaryTimeout = moveIdleQueueTimeout
	}

	pollUntil(c.clock, primaryTimeout, func() (bool, error) {
		lite, err := c.builder.ReadLite()
		if err != nil {
			return false, nil
		}
		cur := summarizeLite(lite)
		if cur.AllControlsLocked {
			info.LockObserved = true
			return true, nil
		}
		if meaningfulChange(before, cur) {
			info.ChangeObserved = true
			return true, nil
		}
		if cmd.IsDirectional() {
			status, err := c.client.ControlStatus()
			if err == nil && strings.Contains(status, "queue=0") {
				info.IdleQueueObserved = true
				return true, nil
			}
		}
		return false, nil
	})

	if !info.LockObserved {
		pollUntil(c.clock, lockGrace(cmd), func() (bool, error) {
			lite, err := c.builder.ReadLite()
			if err != nil {
				return false, nil
			}
			if lite.AllControlsLocked {
				info.LockObserved = true
				return true, nil
			}
			return false, nil
		})
	}

	if info.LockObserved {
		cleared, _ := pollUntil(c.clock, lockClearTimeout, func() (bool, error) {
			lite, err := c.builder.ReadLite()
			if err != nil {
				return false, nil
			}
			return !lite.AllControlsLocked, nil
		})
		info.LockClearedInTime = cleared
	}

	return info
}

// passabilityMask classifies the current map and flattens it to a
// wall/non-wall bitmap for the pre/post passability diff.
func (c *Controller) passabilityMask(elevation uint8, surfing bool) (mask []bool, w, h int) {
	tags, w, h, err := c.builder.ClassifyCurrentMap(elevation, surfing)
	if err != nil {
		return nil, 0, 0
	}
	mask = make([]bool, len(tags))
	for i, t := range tags {
		mask[i] = isWallTag(t)
	}
	return mask, w, h
}

func isWallTag(t collision.Tag) bool {
	entry, ok := collision.LegendEntry(t)
	return ok && entry.Passability == "wall"
}

// diffMasks compares two same-shape wall/non-wall bitmaps and returns
// every flipped cell as a GroundChange, used when the optional
// pre/post passability capture ran.
func diffMasks(before, after []bool, width int) []statebuilder.GroundChange {
	if len(before) != len(after) || width == 0 {
		return nil
	}
	var out []statebuilder.GroundChange
	for i := range before {
		if before[i] != after[i] {
			out = append(out, statebuilder.GroundChange{X: i % width, Y: i / width, WasWall: before[i], IsWall: after[i]})
		}
	}
	return out
}

// runAUntilEndOfDialog implements the a_until_end_of_dialog sub-loop
//: press A roughly every 2s until dialog ends, a choice
// appears, or the budget is exhausted, always pressing at least once.
func (c *Controller) runAUntilEndOfDialog(index int, start time.Time) (StepResult, error) {
	const maxPresses = 60
	const maxDuration = 2 * time.Minute

	step := StepResult{Index: index, Type: KindControl, Command: "a_until_end_of_dialog"}

	before, err := c.builder.ReadLite()
	if err != nil {
		return StepResult{}, err
	}
	step.Before = summarizeLite(before)

	var transcript []string
	appendText := func(text string) {
		if text == "" {
			return
		}
		if len(transcript) > 0 && strings.HasPrefix(text, transcript[len(transcript)-1]) {
			transcript[len(transcript)-1] = text
			return
		}
		transcript = append(transcript, text)
	}

	presses := 0
	for {
		if err := c.client.Control("a"); err != nil {
			step.Error = err.Error()
		}
		presses++

		lite, err := c.builder.ReadLite()
		if err == nil {
			if lite.Dialog.VisibleText != nil {
				appendText(*lite.Dialog.VisibleText)
			}
			if !lite.Dialog.InDialog {
				break
			}
			if lite.Dialog.VisibleText != nil && strings.Contains(*lite.Dialog.VisibleText, "►") {
				break
			}
		}

		if presses >= maxPresses || c.clock.now().Sub(start) >= maxDuration {
			break
		}
		c.clock.sleep(aUntilEndOfDialogInterval)
	}

	after, err := c.builder.Build(c.overlay)
	if err != nil {
		return step, err
	}
	step.After = summarizeSnapshot(after)
	step.OK = step.Error == ""
	step.Trace.VisibleTextStates = transcript
	step.Trace.TilesDiscovered = after.TilesDiscovered
	step.Trace.GroundWallChanged = after.GroundChanges
	step.MS = c.clock.now().Sub(start).Milliseconds()
	return step, nil
}
