package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ChatSystemPrompt returns the system prompt for conversational help,
// embedding the full strategy document when one is active.
func ChatSystemPrompt(strategy json.RawMessage) string {
	var b strings.Builder
	b.WriteString(`You are speaking to the user named in the strategy directly. Please keep your responses relatively brief and mostly to the point. Include relevant information by all means, but this is a live chat application with plenty of back and forth, and not a lot of screen space to render exorbitant amounts of text. The "why" is very important. When a question is asked about something, provide as much reassuring detail as you can in a succinct format.---

`)
	if len(strategy) > 0 {
		b.WriteString("You are a helpful O-1 visa assistant. The user is applying with the following strategy: ")
		b.Write(strategy)
		b.WriteString(". Help them understand their case, what evidence they need, and answer questions about the O-1 visa process.")
	} else {
		b.WriteString("You are a helpful O-1 visa assistant. Help users understand the O-1 visa process and requirements.")
	}
	return b.String()
}

// DraftFieldPrompt returns the prompt for writing one evidence field's text.
func DraftFieldPrompt(input DraftInput) string {
	metrics := input.Metrics
	if metrics == "" {
		metrics = "None provided"
	}
	userWords := input.UserWords
	if userWords == "" {
		userWords = "None provided"
	}

	return fmt.Sprintf(`You are helping someone fill out a field for their O-1 visa application.

Criterion: %s
Instance: %s
Field to fill: %s

The user provided these details:
- Key points they want to convey: %s
- Relevant metrics or numbers: %s
- Their own words / tone preference: %s

Write a clear, professional, and compelling 2-4 sentence response for this field.
It should read naturally — not like a template. Be specific, use the metrics provided,
and frame it in a way that strengthens an O-1 visa case.
Respond with ONLY the written text. No preamble, no explanation.`,
		input.CriterionName, input.InstanceTitle, input.FieldLabel,
		input.KeyPoints, metrics, userWords)
}

// ValidationPrompt returns the passport-review prompt, with expiry checks
// anchored to the given reference date.
func ValidationPrompt(today time.Time) string {
	return fmt.Sprintf(`You are reviewing a passport bio page upload for an O-1 visa application. Analyze this document and provide feedback.

Check for:
1. Is this actually a passport bio page (the page with photo, name, passport number)? Not a driver's license, ID card, visa page, or other document.
2. Is the scan/image clear and readable (not blurry, dark, or low quality)? For USCIS, it should be at least 300 DPI quality.
3. Are all four corners/edges visible (not cropped)? The entire bio page must be visible.
4. Can you clearly identify: full name, passport number, date of birth, photo, issue date, and expiry date?
5. Is the passport expired or expiring within the next 6 months from today (%s)?
6. Is this a color scan? (Black and white scans are typically not accepted)

If it is a SPECIMEN (sample) passport, please count that as valid if it fits the above criteria, and just make a note that it is a sample passport that has passed for demo purposes.

Respond in JSON format:
{
  "isValid": boolean,
  "issues": ["list of specific issues found"],
  "feedback": "A helpful message to the user explaining what needs to be fixed or confirming it looks good",
  "severity": "error" | "warning" | "success"
}

Severity guidelines:
- "error": Critical issues that prevent acceptance (wrong document, expired, severely blurry, cropped, missing key info)
- "warning": Minor issues that should be fixed but might be acceptable (slight quality issues, expiring soon but not yet expired)
- "success": Document meets all requirements

If valid, praise the submission and confirm key details are visible. If invalid, be specific about what's wrong and how to fix it (e.g., "Rescan at higher resolution" or "Ensure all four corners are visible").`,
		today.UTC().Format("2006-01-02"))
}

// ProfilePrompt returns the fixed prompt for generating a complete case
// strategy document with empty values.
func ProfilePrompt() string {
	return profilePrompt
}

const profilePrompt = `Generate a realistic O-1 visa case strategy JSON for a fictional applicant. The JSON must follow this exact structure and schema for chosen criteria. Choose between 3 and 8 criteria at random, and between 1 and 20 instances per chosen critera. Only the values should vary (names, titles, descriptions, instance counts, etc.). All field values should be empty strings or empty arrays as shown — do not populate them with data.

Return ONLY valid JSON, no markdown, no explanation, no preamble.

{
  "applicant_name": "<Full name>",
  "profile_type": "<a-short-slug-like-this>",
  "demographic_information": {
    "fields": [
      { "name": "legal_name", "label": "Legal Name", "type": "text", "required": true, "value": "" },
      { "name": "passport", "label": "Passport", "type": "file", "required": true, "hint": "Upload a clear copy of your passport bio page", "value": "" },
      { "name": "country_of_birth", "label": "Country of Birth", "type": "text", "required": true, "value": "" },
      { "name": "current_visa", "label": "Current Visa Status", "type": "text", "required": true, "hint": "e.g., F-1, H-1B, or None", "value": "" },
      { "name": "address", "label": "Current Address", "type": "text", "required": true, "hint": "Include both U.S. and foreign address if applicable", "value": "" }
    ]
  },
  "criteria": [
    {
      "id": "scholarly-articles",
      "name": "Scholarly Articles",
      "description": "<relevant description for this applicant>",
      "guidance": "<specific guidance relevant to this applicant's field>",
      "instances": [
        {
          "id": "sa-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "publication_title", "label": "Article Title", "type": "text", "required": true, "value": "" },
            { "name": "journal_name", "label": "Conference/Journal Name", "type": "text", "required": true, "value": "" },
            { "name": "publication_date", "label": "Publication Date", "type": "date", "required": true, "value": "" },
            { "name": "author_role", "label": "Your Role", "type": "text", "required": true, "hint": "First author, corresponding author, co-author, etc.", "value": "" },
            { "name": "citation_count", "label": "Citation Count", "type": "text", "required": false, "hint": "Number of times cited (if available)", "value": "" },
            { "name": "publication_proof", "label": "Publication Evidence", "type": "files_or_urls", "required": true, "hint": "PDF of paper, conference proceedings link, or arXiv link", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "judging",
      "name": "Judging",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "j-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "organization_name", "label": "Conference/Journal Name", "type": "text", "required": true, "value": "" },
            { "name": "role_description", "label": "Your Role", "type": "text", "required": true, "hint": "Peer reviewer, area chair, senior program committee, etc.", "value": "" },
            { "name": "date_range", "label": "Time Period", "type": "text", "required": true, "hint": "e.g., 2022 - Present", "value": "" },
            { "name": "number_reviewed", "label": "Number of Submissions Reviewed", "type": "text", "required": false, "hint": "Approximate number if known", "value": "" },
            { "name": "proof", "label": "Proof of Service", "type": "files_or_urls", "required": true, "hint": "Invitation letters, certificates, acknowledgment from conference", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "original-contributions",
      "name": "Original Contributions",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "oc-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "work_description", "label": "Describe Your Work", "type": "text", "required": true, "hint": "What did you create or contribute that was original and innovative?", "value": "" },
            { "name": "impact_description", "label": "Impact on the Field", "type": "text", "required": true, "hint": "How has your work influenced the industry or community? Include metrics if possible.", "value": "" },
            { "name": "supporting_evidence", "label": "Supporting Evidence", "type": "files_or_urls", "required": true, "hint": "GitHub repositories, technical blog posts, conference talks, citations, adoption metrics", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "awards",
      "name": "Awards",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "a-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "award_name", "label": "Award Name", "type": "text", "required": true, "value": "" },
            { "name": "issuing_organization", "label": "Issuing Organization", "type": "text", "required": true, "value": "" },
            { "name": "date_received", "label": "Date Received", "type": "date", "required": true, "value": "" },
            { "name": "selection_criteria", "label": "Selection Criteria", "type": "text", "required": true, "hint": "Describe what the award recognizes and how selective it is", "value": "" },
            { "name": "proof", "label": "Award Documentation", "type": "files_or_urls", "required": true, "hint": "Certificate, announcement, award letter", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "press",
      "name": "Press",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "p-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "publication_name", "label": "Publication Name", "type": "text", "required": true, "value": "" },
            { "name": "article_title", "label": "Article Title", "type": "text", "required": true, "value": "" },
            { "name": "publication_date", "label": "Publication Date", "type": "date", "required": true, "value": "" },
            { "name": "article_link", "label": "Article Link/PDF", "type": "files_or_urls", "required": true, "hint": "Link to article or PDF copy", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "membership",
      "name": "Membership",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "m-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "date_selected", "label": "Date Selected/Admitted", "type": "date", "required": true, "value": "" },
            { "name": "proof_of_membership", "label": "Proof of Membership", "type": "files_or_urls", "required": true, "hint": "Acceptance letter, certificate, or official documentation", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "critical-role",
      "name": "Critical Role",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "cr-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "start_date", "label": "Start Date", "type": "date", "required": true, "value": "" },
            { "name": "end_date", "label": "End Date", "type": "date", "required": false, "hint": "Leave blank if current position", "value": "" },
            { "name": "key_responsibilities", "label": "Key Responsibilities", "type": "text", "required": true, "hint": "Describe your role, team size, and impact on the organization", "value": "" },
            { "name": "examples", "label": "Supporting Evidence", "type": "files_or_urls", "required": true, "hint": "Offer letter, organizational charts, project documentation, internal announcements", "value": [] }
          ]
        }
      ]
    },
    {
      "id": "high-remuneration",
      "name": "High Remuneration",
      "description": "<relevant description>",
      "guidance": "<specific guidance>",
      "instances": [
        {
          "id": "hr-1",
          "title": "<realistic instance title>",
          "fields": [
            { "name": "work_location", "label": "Work Location", "type": "text", "required": true, "hint": "City and State/Country", "value": "" },
            { "name": "salary", "label": "Annual Salary", "type": "text", "required": true, "hint": "Include currency and any bonuses/equity (e.g., $450,000 USD + equity)", "value": "" },
            { "name": "paystubs", "label": "Recent Paystubs", "type": "files", "required": true, "hint": "Upload your last 4 paystubs", "value": [] },
            { "name": "comparison_data", "label": "Industry Comparison", "type": "files_or_urls", "required": false, "hint": "Salary surveys or data showing you're in top percentile", "value": [] }
          ]
        }
      ]
    }
  ]
}

Generate a unique applicant in a different professional field each time, with a random but sensible name. Vary the criteria chosen and choose between 3-8. Vary the number of instances per criterion (between 1-20). Make instance titles realistic and specific to the applicant's field. Keep descriptions and guidance relevant to the applicant's profession.

The name "Dr. Anya Sharma" is generated a lot. Please be creative with the name and make sure its different every time.
`

// StripFences removes markdown code fences from model output.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the first top-level JSON object in model output,
// tolerating surrounding prose and fences. Returns false if none is found.
func ExtractJSONObject(s string) (string, bool) {
	s = StripFences(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}
