package llm

import (
	"fmt"

	"weeksum/internal/models"
)

// systemPrompt fixes the model's ground rules: the summary must come only
// from the supplied meeting text and always open with the same header.
const systemPrompt = `You are an assistant that helps employees fill in their weekly task summary based on their calendar meetings.

RULES:
1. Use ONLY the information provided in the meetings text.
2. Do not invent meetings and do not make big inferences.
3. Write flowing prose instead of just transcribing the calendar.
4. Always begin with (Summary of the week:) followed by the generated summary.
5. Summarize around the main meetings and keep only professionally relevant information; leave out personal, medical, or routine events such as lunch or physical activity, and do not mention anything unimportant for the job.`

// userPrompt embeds the narratives, the commitments, and the employee
// context into the task instruction handed to the model.
func userPrompt(req models.SummaryRequest) string {
	return fmt.Sprintf(`Write the work summary for the employee %s in first person, as if the person were writing it, saying what the employee worked on and which activities took most of their dedication. Take the person's role into account: %s in the %s department. The person's calendar for this week was: %s. Compare it with last week's calendar to spot projects with more focus this week or last week, and projects that may have lost priority: %s. Take into account the requests the person's manager agreed with them, which are the following: %s. Remember: do not invent anything. If there is not enough information, return only "Not enough information.".
Return ONLY the JSON, with no extra text.`,
		req.EmployeeName,
		req.Role,
		req.Department,
		req.CurrentNarrative,
		req.PreviousNarrative,
		req.Commitments,
	)
}
