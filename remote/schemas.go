package remote

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://www.giberode.com/giberode_app/schemas/"

func compile(name, schema string) *jsonschema.Schema {
	return jsonschema.MustCompileString(schemaBaseURL+name, schema)
}

// The backend is loose about scalar types, so scalars accept both strings and numbers.
var (
	statusSchema = compile("status.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "boolean", "number", "null"]},
			"success": {"type": ["boolean", "string", "number", "null"]},
			"message": {"type": ["string", "null"]}
		}
	}`)

	loginSchema = compile("login.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"message": {"type": ["string", "null"]},
			"user": {
				"type": ["object", "null"],
				"properties": {
					"phone": {"type": ["string", "number"]},
					"name": {"type": ["string", "null"]},
					"role": {"type": ["string", "null"]},
					"profile_image": {"type": ["string", "null"]}
				},
				"required": ["phone"]
			}
		}
	}`)

	deviceSchema = compile("device.json", `{
		"type": "object",
		"properties": {
			"device_id": {"type": ["string", "number", "null"]}
		}
	}`)

	appVersionSchema = compile("app_version.json", `{
		"type": "object",
		"properties": {
			"android_version": {"type": ["string", "number"]}
		},
		"required": ["android_version"]
	}`)

	usersSchema = compile("users.json", `{
		"type": "object",
		"properties": {
			"success": {"type": ["boolean", "string", "number", "null"]},
			"message": {"type": ["string", "null"]},
			"users": {
				"type": ["array", "null"],
				"items": {
					"type": "object",
					"properties": {
						"name": {"type": ["string", "null"]},
						"phone": {"type": ["string", "number", "null"]}
					}
				}
			}
		}
	}`)

	doctorsSchema = compile("doctors.json", `{
		"type": "object",
		"properties": {
			"data": {
				"type": ["array", "null"],
				"items": {"type": "object"}
			}
		}
	}`)

	scoreSchema = compile("score.json", `{
		"type": "object",
		"properties": {
			"profile_score_percentage": {"type": ["string", "number", "null"]}
		}
	}`)

	totalsSchema = compile("totals.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"total_given": {"type": ["string", "number", "null"]},
			"total_taken": {"type": ["string", "number", "null"]}
		}
	}`)

	calculationSchema = compile("calculation.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"data": {"type": ["object", "null"]}
		}
	}`)

	businessTotalSchema = compile("business_total.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"total_business_amount": {"type": ["string", "number", "null"]}
		}
	}`)

	historySchema = compile("history.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"data": {
				"type": ["array", "null"],
				"items": {
					"type": "object",
					"properties": {
						"type": {"type": ["string", "null"]},
						"business_amount": {"type": ["string", "number", "null"]}
					}
				}
			}
		}
	}`)

	attendanceReportSchema = compile("attendance_report.json", `{
		"type": "object",
		"properties": {
			"attendance_status": {"type": ["string", "null"]},
			"attended_meetings": {
				"type": ["array", "null"],
				"items": {"type": "object"}
			}
		}
	}`)

	eventsSchema = compile("events.json", `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"title": {"type": ["string", "null"]},
				"date": {"type": "string"}
			},
			"required": ["date"]
		}
	}`)

	blogSchema = compile("blog.json", `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"title": {"type": ["string", "null"]},
				"created_at": {"type": ["string", "null"]}
			}
		}
	}`)

	profileSchema = compile("profile.json", `{
		"type": "object",
		"properties": {
			"success": {"type": ["boolean", "string", "number", "null"]},
			"message": {"type": ["string", "null"]},
			"user": {"type": ["object", "null"]}
		}
	}`)

	uploadSchema = compile("upload.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["string", "null"]},
			"image_url": {"type": ["string", "null"]}
		}
	}`)

	registrationProfileSchema = compile("registration_profile.json", `{
		"type": "object",
		"properties": {
			"status": {"type": ["boolean", "string", "number", "null"]},
			"data": {"type": ["object", "null"]}
		}
	}`)
)
