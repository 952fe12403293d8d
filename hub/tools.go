package hub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/coralmesh/tool"
)

type waitForMentionsArgs struct {
	TimeoutMs int `json:"timeoutMs" description:"How long to wait in milliseconds"`
}

type sendMessageArgs struct {
	ThreadID string   `json:"threadId" description:"Target thread identifier"`
	Content  string   `json:"content" description:"Message body"`
	Mentions []string `json:"mentions" description:"Agent IDs to notify"`
}

type createThreadArgs struct {
	ThreadName     string   `json:"threadName" description:"Human-readable thread name"`
	ParticipantIDs []string `json:"participantIds" description:"Agent IDs to include"`
}

type listAgentsArgs struct{}

// Tools exposes the hub operations as engine tools so a coordinator-style
// agent can plan thread creation, delegation and replies itself. The
// wait_for_mentions timeout is capped by the hub long-poll contract.
func Tools(client Client) []tool.Tool {
	return []tool.Tool{
		tool.NewFunctionToolFromStruct(
			"wait_for_mentions",
			"Wait for mentions addressed to this agent in any thread",
			waitForMentionsArgs{},
			func(ctx context.Context, args map[string]any) (any, error) {
				timeoutMs, _ := args["timeoutMs"].(float64)
				outcome, err := client.WaitForMentions(ctx, time.Duration(timeoutMs)*time.Millisecond)
				if err != nil {
					return nil, err
				}
				if outcome.Empty() {
					return NoMessagesSentinel, nil
				}
				return outcome.Messages, nil
			},
		),
		tool.NewFunctionToolFromStruct(
			"send_message",
			"Send a message into a thread mentioning specific agents",
			sendMessageArgs{},
			func(ctx context.Context, args map[string]any) (any, error) {
				threadID, _ := args["threadId"].(string)
				content, _ := args["content"].(string)
				mentions := toStringSlice(args["mentions"])
				if err := client.SendMessage(ctx, threadID, content, mentions); err != nil {
					return nil, err
				}
				return "sent", nil
			},
		),
		tool.NewFunctionToolFromStruct(
			"create_thread",
			"Create a new conversation thread with the given participants",
			createThreadArgs{},
			func(ctx context.Context, args map[string]any) (any, error) {
				name, _ := args["threadName"].(string)
				participants := toStringSlice(args["participantIds"])
				threadID, err := client.CreateThread(ctx, name, participants)
				if err != nil {
					return nil, err
				}
				return map[string]any{"threadId": threadID}, nil
			},
		),
		tool.NewFunctionToolFromStruct(
			"list_agents",
			"List the agents currently registered with the hub",
			listAgentsArgs{},
			func(ctx context.Context, _ map[string]any) (any, error) {
				agents, err := client.ListAgents(ctx)
				if err != nil {
					return nil, err
				}
				return strings.Join(agents, ", "), nil
			},
		),
	}
}

func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}
