package llm

import "fmt"

const denoisePromptTemplate = `You are a job posting parser. Convert the following raw text extracted from a job posting webpage into clean, well-structured Markdown.

Rules:
- Preserve all relevant job information (title, company, team, salary, requirements, responsibilities, etc.)
- Remove navigation menus, cookie notices, ads, and other website boilerplate
- Format headings, bullet points, and sections appropriately
- Extract and clearly label salary information if present
- Keep the company name and job title prominent
- Output ONLY the Markdown content, no commentary

Raw text:
%s`

const extractPromptTemplate = `You are a skills extraction expert. Analyze the job posting below and extract all skills mentioned.

Return a JSON object with this exact structure:
{
  "title": "Job title",
  "company": "Company name",
  "team_division": "Team or division name (or null)",
  "salary_min": null or integer (annual, in the listed currency),
  "salary_max": null or integer (annual, in the listed currency),
  "salary_currency": "USD" (or other currency code),
  "required_skills": ["skill1", "skill2", ...],
  "preferred_skills": ["skill1", "skill2", ...]
}

Rules:
- Skills should be specific and atomic (e.g., "Python" not "programming languages")
- Separate clearly required skills from preferred/nice-to-have skills
- Include both technical and soft skills
- Normalize skill names (e.g., "React.js" -> "React", "Javascript" -> "JavaScript")
- If salary is not mentioned, use null for min/max
- Return ONLY valid JSON, no commentary

Job posting:
%s`

// buildDenoisePrompt creates the raw-text-to-Markdown prompt.
func buildDenoisePrompt(rawText string) string {
	return fmt.Sprintf(denoisePromptTemplate, rawText)
}

// buildExtractPrompt creates the structured extraction prompt.
func buildExtractPrompt(jobMarkdown string) string {
	return fmt.Sprintf(extractPromptTemplate, jobMarkdown)
}
