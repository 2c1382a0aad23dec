// Package reasoner wraps the external reasoning service behind the three
// operations the workflow needs: classify, plan data needs, synthesize.
//
// Every operation follows the same two-tier discipline: one structured attempt
// with a bounded timeout, one lenient recovery that scans the raw text channel
// for an embedded JSON fragment, then the deterministic rule tables. Service
// unavailability and malformed output degrade; they never abort a request.
package reasoner

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	promptx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/prompt"
	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/reasoner/rules"
)

const defaultTimeout = 30 * time.Second

// jsonFragmentPattern finds an embedded JSON object in free text.
var jsonFragmentPattern = regexp.MustCompile(`(?s)\{.*\}`)

type classifyLLMOutput struct {
	Intents   []string `json:"intents"`
	Urgency   string   `json:"urgency"`
	Rationale string   `json:"rationale,omitempty"`
}

type planLLMOutput struct {
	Operations  []contractx.DataOperation `json:"operations"`
	NeedHistory bool                      `json:"need_history,omitempty"`
}

// Adapter implements contract.Reasoner over eino chat-model graphs. A nil
// runner set (see NewOffline) skips the service entirely and answers from the
// rule tables, mirroring a deployment without an API key.
type Adapter struct {
	classifyRunner compose.Runnable[map[string]any, classifyLLMOutput]
	planRunner     compose.Runnable[map[string]any, planLLMOutput]

	// Raw text channels: recovery for classify/plan, primary for synthesize.
	classifyText   compose.Runnable[map[string]any, *schema.Message]
	planText       compose.Runnable[map[string]any, *schema.Message]
	synthesizeText compose.Runnable[map[string]any, *schema.Message]

	timeout time.Duration
}

var _ contractx.Reasoner = (*Adapter)(nil)

// ModelSet carries the chat models backing each adapter operation.
type ModelSet struct {
	Classifier  einomodel.BaseChatModel
	Planner     einomodel.BaseChatModel
	Synthesizer einomodel.BaseChatModel
}

func New(ctx context.Context, models ModelSet, timeout time.Duration) (*Adapter, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	prompts := promptx.LoadPromptSet()

	classifyRunner, err := compileStructuredGraph[classifyLLMOutput](
		ctx, models.Classifier, prompts.Classifier, "reasoner.classify_graph")
	if err != nil {
		return nil, err
	}
	classifyText, err := compileTextGraph(
		ctx, models.Classifier, prompts.Classifier, "reasoner.classify_text_graph")
	if err != nil {
		return nil, err
	}

	planRunner, err := compileStructuredGraph[planLLMOutput](
		ctx, models.Planner, prompts.Planner, "reasoner.plan_graph")
	if err != nil {
		return nil, err
	}
	planText, err := compileTextGraph(
		ctx, models.Planner, prompts.Planner, "reasoner.plan_text_graph")
	if err != nil {
		return nil, err
	}

	synthesizeText, err := compileTextGraph(
		ctx, models.Synthesizer, prompts.Synthesizer, "reasoner.synthesize_graph")
	if err != nil {
		return nil, err
	}

	return &Adapter{
		classifyRunner: classifyRunner,
		planRunner:     planRunner,
		classifyText:   classifyText,
		planText:       planText,
		synthesizeText: synthesizeText,
		timeout:        timeout,
	}, nil
}

// NewOffline returns an adapter that answers every operation from the rule
// tables without touching a reasoning backend.
func NewOffline() *Adapter {
	return &Adapter{timeout: defaultTimeout}
}

func (a *Adapter) Classify(ctx context.Context, text string) (contractx.Classification, error) {
	if a.classifyRunner != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout)
		out, err := a.classifyRunner.Invoke(cctx, map[string]any{"input": text})
		cancel()
		if err == nil {
			if cls, ok := validateClassification(out); ok {
				return cls, nil
			}
			err = contractx.ErrSchemaViolation
		}
		log.Debug().Err(err).Msg("structured classify failed, attempting recovery")

		if raw, ok := a.recoverText(ctx, a.classifyText, text); ok {
			var out classifyLLMOutput
			if json.Unmarshal(raw, &out) == nil {
				if cls, ok := validateClassification(out); ok {
					return cls, nil
				}
			}
		}
		log.Warn().Msg("classify degraded to rule table")
	}
	return rules.Classify(text), nil
}

func (a *Adapter) PlanDataNeeds(ctx context.Context, text string, summary contractx.ContextSummary) (contractx.DataPlan, error) {
	if a.planRunner != nil {
		input := planInput(text, summary)

		pctx, cancel := context.WithTimeout(ctx, a.timeout)
		out, err := a.planRunner.Invoke(pctx, map[string]any{"input": input})
		cancel()
		if err == nil {
			if plan, ok := validatePlan(out); ok {
				return plan, nil
			}
			err = contractx.ErrSchemaViolation
		}
		log.Debug().Err(err).Msg("structured plan failed, attempting recovery")

		if raw, ok := a.recoverText(ctx, a.planText, input); ok {
			var out planLLMOutput
			if json.Unmarshal(raw, &out) == nil {
				if plan, ok := validatePlan(out); ok {
					return plan, nil
				}
			}
		}
		log.Warn().Msg("data planning degraded to rule table")
	}
	return rules.Plan(summary.CustomerID), nil
}

func (a *Adapter) Synthesize(ctx context.Context, summary contractx.ContextSummary) (string, error) {
	if a.synthesizeText != nil {
		input := summaryInput(summary)

		// Synthesis output is free text; recovery is a second invocation of
		// the same channel.
		for attempt := 0; attempt < 2; attempt++ {
			sctx, cancel := context.WithTimeout(ctx, a.timeout)
			msg, err := a.synthesizeText.Invoke(sctx, map[string]any{"input": input})
			cancel()
			if err != nil {
				log.Debug().Err(err).Int("attempt", attempt).Msg("synthesize invoke failed")
				continue
			}
			if msg != nil {
				if text := strings.TrimSpace(msg.Content); text != "" {
					return text, nil
				}
			}
		}
		log.Warn().Msg("synthesis degraded to template")
	}
	return rules.Synthesize(summary), nil
}

// recoverText re-invokes the raw text channel once and scans the reply for an
// embedded JSON object. This is the single lenient recovery attempt; there are
// no retries beyond it.
func (a *Adapter) recoverText(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	input string,
) ([]byte, bool) {
	if runner == nil {
		return nil, false
	}
	rctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	msg, err := runner.Invoke(rctx, map[string]any{"input": input})
	if err != nil || msg == nil {
		return nil, false
	}
	fragment := jsonFragmentPattern.FindString(msg.Content)
	if fragment == "" {
		return nil, false
	}
	return []byte(fragment), true
}

func validateClassification(out classifyLLMOutput) (contractx.Classification, bool) {
	intents := make([]string, 0, len(out.Intents))
	for _, tag := range out.Intents {
		if tag = strings.TrimSpace(tag); tag != "" {
			intents = append(intents, tag)
		}
	}
	if len(intents) == 0 {
		return contractx.Classification{}, false
	}

	urgency := contractx.Urgency(strings.ToLower(strings.TrimSpace(out.Urgency)))
	if urgency != contractx.UrgencyHigh {
		urgency = contractx.UrgencyNormal
	}

	return contractx.Classification{
		Intents:   intents,
		Urgency:   urgency,
		Rationale: strings.TrimSpace(out.Rationale),
	}, true
}

func validatePlan(out planLLMOutput) (contractx.DataPlan, bool) {
	ops := make([]contractx.DataOperation, 0, len(out.Operations))
	for _, op := range out.Operations {
		switch op.Action {
		case contractx.ActionGetCustomer, contractx.ActionListCustomers,
			contractx.ActionGetHistory, contractx.ActionUpdateFields:
			ops = append(ops, op)
		default:
			return contractx.DataPlan{}, false
		}
	}
	return contractx.DataPlan{Operations: ops, NeedHistory: out.NeedHistory}, true
}

func planInput(text string, summary contractx.ContextSummary) string {
	payload := map[string]any{
		"query":   text,
		"context": summary,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return text
	}
	return string(raw)
}

func summaryInput(summary contractx.ContextSummary) string {
	raw, err := json.Marshal(summary)
	if err != nil {
		return summary.Query
	}
	return string(raw)
}
