package app

import "fmt"

// Fixed reply texts. These ship in the working language; the language
// pipeline only localizes classifier responses, not canned replies.
const (
	replyLocationAck = "📍 Thank you for sharing your location. This helps us provide relevant health alerts and information for your area."

	replyImage = "🖼️ I see you sent an image. Currently, I can only process text messages. Please describe your health concern in words."

	replyAudio        = "🎤 I received your voice message. Currently, I can only process text messages. Please type your health concerns."
	replyAudioVoiceOn = "🎤 I received your voice message. Voice message processing is coming soon! For now, please type your health concerns."

	replyUnsupported = "❌ I can only process text messages at the moment. Please type your health concerns."

	replyApology = "⚠️ Sorry, I encountered an error. Please try again in a moment."

	replyEmptyMessage = "📝 I didn't receive any message. Please type your health question or concern."

	replyUnknownButton    = "❓ I didn't recognize that option. Please try again or type your question."
	replyUnknownSelection = "❓ I didn't recognize that selection. Please try again or type your question."

	replySymptomPrompt = "Please describe your symptoms. For example: 'I have fever and headache since yesterday'"

	replyVaccineInfo = "💉 Here is information about vaccination schedules and available vaccines. Reply with a vaccine name for details."

	replyDiseaseInfo = "🦠 Please tell me which disease you want information about, or type 'list' to see common diseases."

	replyPreventionTips = "🛡️ Here are general prevention tips: Wash hands regularly, maintain social distancing, wear masks in crowded areas, and get vaccinated."

	replyEmergencyContacts = "🚨 Emergency Contacts:\n• National Emergency: 112\n• Ambulance: 108\n• Police: 100\n• Fire: 101\n\nPlease describe your emergency situation."

	replyEmergencyDetected = "🚨 This appears to be an emergency. Please contact local emergency services immediately. For India: Dial 112 or 108 for ambulance."

	replyLanguageChange = "🌐 Please type your preferred language: Hindi, English, Odia, Tamil, Telugu, etc."

	replyHumanEscalation = "👥 Connecting you to a human agent. Please wait while we transfer your conversation."

	replyOutbreakNeedLocation = "📍 Please share your location to get relevant outbreak alerts, or specify a location."
)

func replyDiseaseDetails(disease string) string {
	return fmt.Sprintf("🦠 Information about %s: Symptoms, prevention, and treatment details will be shown here.", disease)
}

func replySymptomSelection(symptom string) string {
	return fmt.Sprintf("🔍 Analyzing symptom: %s. Please describe any other symptoms.", symptom)
}

func replyVaccineDetails(vaccine string) string {
	return fmt.Sprintf("💉 Information about %s: Schedule, dosage, and side effects will be shown here.", vaccine)
}

func replyOutbreakForLocation(location string) string {
	return fmt.Sprintf("📍 Checking outbreak alerts for %s...", location)
}
