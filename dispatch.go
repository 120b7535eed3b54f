package librarian

import (
	"context"

	"github.com/w-h-a/librarian/completer"
	"github.com/w-h-a/librarian/toolhandler"
)

// dispatchState enumerates the two-phase tool-calling protocol. Every turn
// ends in stateDeclined or stateCompleted; the intermediate states exist so
// a failed upstream call reports exactly where the turn stopped.
type dispatchState int

const (
	stateAwaitingFirstReply dispatchState = iota
	stateDeclined
	stateAwaitingToolResult
	stateAwaitingFinalReply
	stateCompleted
)

const (
	finalReplyMaxTokens = 250
	emptyReplyFallback  = "I was unable to generate a response."
)

type dispatcher struct {
	completer completer.Completer
	tool      toolhandler.ToolHandler
}

type dispatchResult struct {
	state dispatchState
	text  string
	title string
}

// run submits the conversation with the lookup tool declared, and, if the
// model requests it, invokes the tool and submits the updated history for
// the final reply. Only the first tool call in a reply is honored; extra
// parallel calls are ignored.
//
// Model failures are not retried here; they propagate with the state the
// turn stopped in. The first reply is only appended to history after a
// successful return, so a cancelled phase-1 call leaves no partial turn
// behind.
func (d *dispatcher) run(ctx context.Context, conv *Conversation) (dispatchResult, error) {
	spec := d.tool.Spec()

	reply, err := d.completer.Complete(ctx, conv.Messages, completer.WithTools(spec))
	if err != nil {
		return dispatchResult{state: stateAwaitingFirstReply}, err
	}

	conv.append(reply)

	call, ok := firstToolCall(reply, spec.Name)
	if !ok {
		text := reply.Content
		if len(text) == 0 {
			text = emptyReplyFallback
		}
		return dispatchResult{state: stateDeclined, text: text}, nil
	}

	rsp, err := d.tool.Invoke(ctx, toolhandler.ToolRequest{
		Name:      call.Name,
		Arguments: call.Arguments,
	})
	if err != nil {
		return dispatchResult{state: stateAwaitingToolResult}, err
	}

	conv.append(completer.Message{
		Role:       completer.RoleTool,
		Name:       call.Name,
		ToolCallID: call.ID,
		Content:    rsp.Content,
	})

	final, err := d.completer.Complete(ctx, conv.Messages, completer.WithMaxTokens(finalReplyMaxTokens))
	if err != nil {
		return dispatchResult{state: stateAwaitingFinalReply}, err
	}

	title, _ := call.Arguments["title"].(string)

	return dispatchResult{
		state: stateCompleted,
		text:  final.Content,
		title: title,
	}, nil
}

func firstToolCall(reply completer.Message, name string) (completer.ToolCall, bool) {
	if len(reply.ToolCalls) == 0 {
		return completer.ToolCall{}, false
	}

	call := reply.ToolCalls[0]
	if call.Name != name {
		return completer.ToolCall{}, false
	}

	return call, true
}
