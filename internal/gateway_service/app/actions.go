package app

import (
	"context"
	"strings"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// Known button identifiers. The dispatch below is an exhaustive switch with
// a default arm, so "unknown id" is an explicit, testable branch.
const (
	ButtonSymptomCheck   = "symptom_check"
	ButtonVaccineInfo    = "vaccine_info"
	ButtonDiseaseInfo    = "disease_info"
	ButtonPreventionTips = "prevention_tips"
	ButtonOutbreakAlerts = "outbreak_alerts"
	ButtonEmergencyHelp  = "emergency_help"
	ButtonLanguageChange = "language_change"
	ButtonHumanAgent     = "human_agent"
)

// Special intents trigger an additional follow-up reply beyond the primary
// classifier response.
const (
	IntentEmergency     = "emergency"
	IntentSymptomCheck  = "symptom_check"
	IntentVaccineInfo   = "vaccine_info"
	IntentOutbreakAlert = "outbreak_alert"
)

// dispatchButton resolves a button id (or legacy payload) to its reply.
// The caller has already logged the user turn.
func (o *Orchestrator) dispatchButton(ctx context.Context, from string, ch domain.Channel, buttonID string) error {
	switch buttonID {
	case ButtonSymptomCheck:
		return o.reply(ctx, from, ch, replySymptomPrompt)
	case ButtonVaccineInfo:
		return o.reply(ctx, from, ch, replyVaccineInfo)
	case ButtonDiseaseInfo:
		return o.reply(ctx, from, ch, replyDiseaseInfo)
	case ButtonPreventionTips:
		return o.reply(ctx, from, ch, replyPreventionTips)
	case ButtonOutbreakAlerts:
		return o.reply(ctx, from, ch, replyOutbreakNeedLocation)
	case ButtonEmergencyHelp:
		return o.reply(ctx, from, ch, replyEmergencyContacts)
	case ButtonLanguageChange:
		return o.reply(ctx, from, ch, replyLanguageChange)
	case ButtonHumanAgent:
		return o.escalateToHuman(ctx, from, ch)
	default:
		o.logger.WarnContext(ctx, "Unknown button id", "button_id", buttonID, "from", from)
		return o.reply(ctx, from, ch, replyUnknownButton)
	}
}

// dispatchList routes a list selection by id prefix to the matching detail
// responder.
func (o *Orchestrator) dispatchList(ctx context.Context, from string, ch domain.Channel, listID string) error {
	switch {
	case strings.HasPrefix(listID, "disease_"):
		return o.reply(ctx, from, ch, replyDiseaseDetails(strings.TrimPrefix(listID, "disease_")))
	case strings.HasPrefix(listID, "symptom_"):
		return o.reply(ctx, from, ch, replySymptomSelection(strings.TrimPrefix(listID, "symptom_")))
	case strings.HasPrefix(listID, "vaccine_"):
		return o.reply(ctx, from, ch, replyVaccineDetails(strings.TrimPrefix(listID, "vaccine_")))
	default:
		o.logger.WarnContext(ctx, "Unknown list id", "list_id", listID, "from", from)
		return o.reply(ctx, from, ch, replyUnknownSelection)
	}
}

// dispatchSpecialIntent runs the follow-up for intents that need one; it is
// additive to the primary reply the text pipeline already sent.
func (o *Orchestrator) dispatchSpecialIntent(ctx context.Context, from string, ch domain.Channel, result *domain.NlpResult) error {
	switch result.Intent {
	case IntentEmergency:
		if err := o.reply(ctx, from, ch, replyEmergencyDetected); err != nil {
			return err
		}
		// Distinct system audit row, separate from the bot reply above.
		o.logInteraction(ctx, domain.NewInteraction(from, "EMERGENCY_DETECTED", domain.SenderSystem, ch, "", nil))
		return nil

	case IntentSymptomCheck:
		return o.reply(ctx, from, ch, replySymptomPrompt)

	case IntentVaccineInfo:
		if vaccine, ok := result.Entities["vaccine"]; ok && vaccine != "" {
			return o.reply(ctx, from, ch, replyVaccineDetails(vaccine))
		}
		return o.reply(ctx, from, ch, replyVaccineInfo)

	case IntentOutbreakAlert:
		if location, ok := result.Entities["location"]; ok && location != "" {
			return o.reply(ctx, from, ch, replyOutbreakForLocation(location))
		}
		return o.reply(ctx, from, ch, replyOutbreakNeedLocation)

	default:
		return nil
	}
}

func (o *Orchestrator) escalateToHuman(ctx context.Context, from string, ch domain.Channel) error {
	if err := o.reply(ctx, from, ch, replyHumanEscalation); err != nil {
		return err
	}
	o.logInteraction(ctx, domain.NewInteraction(from, "HUMAN_ESCALATION_REQUESTED", domain.SenderSystem, ch, "", nil))
	return nil
}
