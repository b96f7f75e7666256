package api

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/cli"
	"github.com/nerrad567/instrument-core/internal/component"
)

// bridgeName identifies the API binding in runtime status and write sources.
const bridgeName = "api"

// commandQueueDepth bounds the commands waiting for the runtime goroutine.
const commandQueueDepth = 16

// CommandResult is the outcome of one console command run through the API.
type CommandResult struct {
	Line   string `json:"line"`
	Status int    `json:"status"`
	Output string `json:"output"`
}

type commandRequest struct {
	line  string
	reply chan CommandResult
}

// bridge is the runtime binding behind the server. Writes go through the
// exchange; commands are dispatched on the runtime goroutine after the tree
// has run, then the snapshot is captured.
type bridge struct {
	exchange *binding.Exchange
	out      bytes.Buffer
	d        *cli.Dispatcher
	queue    chan commandRequest
}

func newBridge(table *address.Table, commands []*cli.Command) (*bridge, error) {
	b := &bridge{
		exchange: binding.NewExchange(bridgeName, table),
		queue:    make(chan commandRequest, commandQueueDepth),
	}
	d, err := cli.NewDispatcher(&b.out, commands...)
	if err != nil {
		return nil, fmt.Errorf("building command dispatcher: %w", err)
	}
	b.d = d
	return b, nil
}

func (b *bridge) Name() string { return bridgeName }

func (b *bridge) Attach(tree *component.Tree) error { return b.exchange.Attach(tree) }

func (b *bridge) ExternalSources() { b.exchange.ExternalSources() }

func (b *bridge) ExternalDestinations() {
drain:
	for i := 0; i < commandQueueDepth; i++ {
		select {
		case req := <-b.queue:
			req.reply <- b.run(req.line)
		default:
			break drain
		}
	}
	b.exchange.ExternalDestinations()
}

func (b *bridge) run(line string) CommandResult {
	b.out.Reset()
	st := b.d.Dispatch(line)
	return CommandResult{Line: line, Status: st, Output: b.out.String()}
}

// submit queues line for the next tick and waits for its result.
func (b *bridge) submit(ctx context.Context, line string) (CommandResult, error) {
	req := commandRequest{line: line, reply: make(chan CommandResult, 1)}
	select {
	case b.queue <- req:
	default:
		return CommandResult{}, ErrCommandQueueFull
	}
	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return CommandResult{}, ctx.Err()
	}
}
