package catalog

import "orphancare-learning/internal/models"

var defaultRoadmaps = []models.Roadmap{
	{
		ID:          "tech",
		Title:       "Web Development Roadmap",
		Description: "Learn HTML, CSS, JavaScript, and React step by step.",
		Lessons: []models.Lesson{
			{ID: "html", Title: "Introduction to HTML", Duration: "15 min"},
			{ID: "css", Title: "CSS Basics", Duration: "20 min"},
			{ID: "js", Title: "JavaScript Fundamentals", Duration: "30 min"},
			{ID: "react", Title: "React Basics", Duration: "40 min"},
		},
	},
	{
		ID:          "govt",
		Title:       "Government Exam Roadmap",
		Description: "Prepare for SSC and Banking exams with structured lessons.",
		Lessons: []models.Lesson{
			{ID: "apt", Title: "Aptitude Basics", Duration: "25 min"},
			{ID: "math", Title: "Quantitative Reasoning", Duration: "35 min"},
			{ID: "eng", Title: "English Grammar", Duration: "20 min"},
			{ID: "gk", Title: "General Knowledge", Duration: "30 min"},
		},
	},
}

var defaultQuizzes = map[string][]models.MCQ{
	"html": {
		{ID: "q1", Question: "What does HTML stand for?", Choices: []string{"Hyper Text Markup Language", "Home Tool Markup Lang", "Hyperlinks and Text Markup"}, AnswerIndex: 0},
		{ID: "q2", Question: "Which tag is used for headings?", Choices: []string{"<p>", "<h1>", "<div>"}, AnswerIndex: 1},
	},
	"css": {
		{ID: "q1", Question: "What property changes text color?", Choices: []string{"background-color", "color", "font-size"}, AnswerIndex: 1},
		{ID: "q2", Question: "Which is used for layout with grid?", Choices: []string{"display: grid", "float: right", "position: fixed"}, AnswerIndex: 0},
	},
	"js": {
		{ID: "q1", Question: "Which keyword declares a variable in JS?", Choices: []string{"var/let/const", "int/float", "dim"}, AnswerIndex: 0},
		{ID: "q2", Question: "What is NaN?", Choices: []string{"Not a Number", "Null and Null", "Number type"}, AnswerIndex: 0},
	},
	"react": {
		{ID: "q1", Question: "What is JSX?", Choices: []string{"A templating engine", "JavaScript XML", "React hook"}, AnswerIndex: 1},
		{ID: "q2", Question: "How do you create a state in functional component?", Choices: []string{"useState()", "setState()", "this.state"}, AnswerIndex: 0},
	},
	"apt": {
		{ID: "q1", Question: "If a+b=10 and a-b=2, then a=?", Choices: []string{"6", "4", "8"}, AnswerIndex: 0},
		{ID: "q2", Question: "5 * 7 = ?", Choices: []string{"30", "35", "40"}, AnswerIndex: 1},
	},
}

var defaultVideos = []models.VideoCategory{
	{
		Category: "General Knowledge",
		Videos: []models.Video{
			{ID: "UKVdkC2RL-4", Title: "Career Path After 10"},
			{ID: "hS_jSJYPACk", Title: "Career Guidance Basics"},
			{ID: "GTJIqu2bUUU", Title: "Student Motivation"},
			{ID: "0qOIcR2jDFk", Title: "Study Tips"},
		},
	},
	{
		Category: "After 12th",
		Videos: []models.Video{
			{ID: "7Q8hG0pYGn8", Title: "What After 12th?"},
			{ID: "Nx-NdoEcQz4", Title: "Streams Explained"},
			{ID: "ueEOngDY268", Title: "Choosing Right Career"},
			{ID: "EZHCvzquseg", Title: "College Selection"},
		},
	},
	{
		Category: "Career Roadmaps",
		Videos: []models.Video{
			{ID: "BvCCLk-R-4w", Title: "Complete Career Roadmap"},
			{ID: "n4JS0htB8j0", Title: "CSE Roadmap"},
			{ID: "9CTgf2cEGGg", Title: "ECE Roadmap"},
			{ID: "t9MJ1gxcJ4w", Title: "AI / ML Roadmap"},
			{ID: "lM3lNWO749Q", Title: "Mechanical Engineering"},
			{ID: "r5w7GKJkRMA", Title: "Civil Engineering"},
			{ID: "_EDc0gBBkNs", Title: "BCA Roadmap"},
			{ID: "FpuDOrb6PXE", Title: "Government Exams"},
		},
	},
}

var defaultBooks = []models.Book{
	{
		ID:          "b-stories-1",
		Title:       "The Little Kite (Story)",
		Author:      "A. Storyteller",
		Category:    "Stories",
		Level:       "Beginner",
		Description: "A short, colorful story about a kite and courage.",
		Tags:        []string{"stories", "kids", "moral"},
		Popularity:  8,
	},
	{
		ID:          "b-math-1",
		Title:       "Abacus for Beginners",
		Author:      "Math Guru",
		Category:    "Math",
		Level:       "Beginner",
		Description: "Learn counting and arithmetic using the abacus.",
		Tags:        []string{"math", "abacus", "counting"},
		Popularity:  10,
	},
	{
		ID:          "b-science-1",
		Title:       "Science Encyclopedia",
		Author:      "S. Knowledge",
		Category:    "Science",
		Level:       "Intermediate",
		Description: "A simple encyclopedia covering basic science topics.",
		Tags:        []string{"science", "encyclopedia"},
		Popularity:  7,
	},
	{
		ID:          "b-stories-2",
		Title:       "Brave Little Elephant",
		Author:      "C. Tales",
		Category:    "Stories",
		Level:       "Beginner",
		Description: "A charming story about friendship and problem solving.",
		Tags:        []string{"stories", "friendship"},
		Popularity:  6,
	},
}
