package cards

// Card text. Kept in one place so wording changes do not touch the builders.
const (
	textAskAnExpertButton      = "Ask an expert"
	textAskAnExpertDisplay     = "Ask an expert"
	textShareFeedbackButton    = "Share feedback"
	textShareFeedbackDisplay   = "Share feedback"
	textAskAnExpertHeader      = "Ask an expert"
	textAskAnExpertSubheader   = "Give your question a title and we'll pass it to the expert team."
	textTitle                  = "Title"
	textTitlePlaceholder       = "Describe the question in a few words"
	textTitleRequired          = "Title is required."
	textDescription            = "Description"
	textDescriptionPlaceholder = "Add any details that could help the experts"
	textSubmit                 = "Submit"
	textShareFeedbackHeader    = "Share feedback"
	textRatingTitle            = "Rating"
	textRatingRequired         = "Select a rating."
	textRatingHelpful          = "Helpful"
	textRatingNeedsImprovement = "Needs improvement"
	textRatingNotHelpful       = "Not helpful"
	textFeedbackPlaceholder    = "Tell us more (optional)"
	textSMEFeedbackHeader      = "Feedback received"
	textQuestionAsked          = "Question asked"
	textTicketQuestionFormat   = "Ticket %s: %s"
	textDate                   = "Date"
	textProvidedBy             = "Provided by"
	textViewArticle            = "View article"
	textChatWithFormat         = "Chat with %s"
	textQuestionForExpert      = "Question for the expert"
	textNoKnowledgeBaseMatch   = "There was no matching question in the knowledge base."
	textStatus                 = "Status"
	textAskedBy                = "Asked by"
	textAnsweredByFormat       = "Answered by %s"
	textUnanswered             = "Unanswered"
	textAnswered               = "Answered"
	textExistingAnswer         = "Knowledge base answer"
	textRespond                = "Respond"
	textUpdateExisting         = "Update existing"
	textAnswerPlaceholder      = "Type the answer for the user"
	textAnswerRequired         = "Answer is required."
	textAddToKnowledgeBase     = "Add this question and answer to the knowledge base"
	textAppendToKnowledgeBase  = "Append this answer to the existing knowledge base answer"
	textUpdateWarning          = "This replaces the existing answer in the knowledge base."
	textSendAnswer             = "Send"
	textTicketID               = "Ticket ID"
	textDateCreated            = "Date created"
	textMyQuestions            = "My questions"
	textMyQuestionsContent     = "You can follow your questions in the My questions tab."
	textExpertAnswerHeader     = "An expert answered your question"
	textExpertAnswerFooter     = "Did this help? Share feedback so the team can improve the answer."
	textChangeLanguageHeader   = "Choose the language for your answers"
	textHelpHeader             = "Help"
	textChatMessageFormat      = "Hi %s! I'm reaching out about your question: %s"
)

// Messages the bot sends alongside cards.
const (
	MessageTicketCreated       = "Your question was sent to the experts. You'll get a notification here when someone answers."
	MessageTicketAnswered      = "An expert answered your question."
	MessageTicketAnswerUpdated = "The answer to your question was updated."
	MessageFeedbackThanks      = "Thanks for your feedback!"
	MessageLanguageChanged     = "Your language was changed."
	MessageNoKnowledgeBase     = "Sorry, questions in your language can't be answered yet."
	MessageAlreadyAnswered     = "This question has already been answered."
	MessageTicketNotFound      = "This question no longer exists."
	MessageTeamWelcome         = "Hi! I'm FAQ Plus. Questions the knowledge base can't answer will be posted to this team for the experts."
	MessageGenericError        = "Sorry, something went wrong. Please try again in a few minutes."
)
