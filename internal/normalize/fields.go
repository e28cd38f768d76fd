package normalize

// field names one derived attribute of a canonical question.
type field int

const (
	fieldNumber field = iota
	fieldID
	fieldText
	fieldOptions
	fieldCorrectAnswer
	fieldBloomLevel
	fieldQuestionType
	fieldExplanation
	fieldCourseTitle
	fieldCourseDescription
	fieldModuleNumber
	fieldTopic
	fieldTokensInput
	fieldTokensOutput
	fieldRating
	fieldGenByLLM
)

// fallbackChains lists, per field, the raw keys consulted in priority order.
// The camelCase and "context." entries let canonical output be read back;
// see RawQuestion.canonical for how its id and number are derived.
var fallbackChains = map[field][]string{
	fieldNumber:            {"number"},
	fieldID:                {"id"},
	fieldText:              {"question", "text"},
	fieldOptions:           {"options"},
	fieldCorrectAnswer:     {"correct_answer", "correctAnswer", "correctAnswerId"},
	fieldBloomLevel:        {"bloom_level", "bloomLevel"},
	fieldQuestionType:      {"q_type", "Question_type", "question_type", "questionType"},
	fieldExplanation:       {"explanation"},
	fieldCourseTitle:       {"course_title", "courseTitle", "context.courseTitle"},
	fieldCourseDescription: {"course_descrisption", "course_description", "courseDescription", "context.courseDescription"},
	fieldModuleNumber:      {"Module", "moduleNumber", "module", "context.moduleNumber"},
	fieldTopic:             {"topic", "Topic", "context.topic"},
	fieldTokensInput:       {"tokensIn", "tokensInput"},
	fieldTokensOutput:      {"tokensOut", "tokensOutput"},
	fieldRating:            {"rating"},
	fieldGenByLLM:          {"genbyLLM", "genByLLM"},
}

// numberSources is consulted in order when deriving the display ordinal.
var numberSources = []field{fieldID, fieldNumber}

// canonicalNumberSources replaces numberSources for canonical records, whose
// number is always the ordinal and whose id may be any string.
var canonicalNumberSources = []field{fieldNumber, fieldID}

// canonicalKeys only appear in records written by this package.
var canonicalKeys = []string{"correctAnswerId", "bloomLevel"}

const (
	PlaceholderText              = "[No question text]"
	PlaceholderCourseTitle       = "Untitled course"
	PlaceholderCourseDescription = "No course description"
	PlaceholderModuleNumber      = "N/A"
	PlaceholderTopic             = "N/A"
)
