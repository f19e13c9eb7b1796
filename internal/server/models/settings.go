package models

// Singleton keys in the site_settings table.
const (
	SettingsAbout    = "about"
	SettingsFooter   = "footer"
	SettingsContact  = "contact"
	SettingsProjects = "projects"
	SettingsSkills   = "skills"
)

type About struct {
	Name              string   `json:"name" validate:"required"`
	Title             string   `json:"title" validate:"required"`
	Subtitle          string   `json:"subtitle"`
	Description       string   `json:"description" validate:"required"`
	Email             string   `json:"email" validate:"required,email"`
	Location          string   `json:"location"`
	Github            string   `json:"github"`
	Linkedin          string   `json:"linkedin"`
	Twitter           string   `json:"twitter"`
	Website           string   `json:"website"`
	Avatar            string   `json:"avatar"`
	AboutText         string   `json:"aboutText" validate:"required"`
	AboutSectionTitle string   `json:"aboutSectionTitle"`
	AboutHighlights   []string `json:"aboutHighlights"`
	Experience        string   `json:"experience"`
	Education         string   `json:"education"`
	TechnologyTags    []string `json:"technologyTags"`
	ProjectsCompleted string   `json:"projectsCompleted"`
	YearsExperience   string   `json:"yearsExperience"`
	Technologies      string   `json:"technologies"`
	Certifications    string   `json:"certifications"`
}

func DefaultAbout() About {
	return About{
		Name:              "Your Name",
		Title:             "Full Stack Developer",
		Subtitle:          "Passionate about creating amazing web experiences",
		Description:       "A dedicated developer with expertise in modern web technologies.",
		Email:             "your.email@example.com",
		AboutText:         "I am a passionate developer with experience in building modern web applications. I love working with cutting-edge technologies and creating user-friendly solutions.",
		AboutSectionTitle: "Full-Stack Software Engineer",
		AboutHighlights: []string{
			"Full-Stack Expertise: Proficient in both frontend and backend development",
			"Modern Technologies: Experience with React, Node.js, TypeScript, and cloud platforms",
			"Problem Solving: Strong analytical skills and creative approach to technical challenges",
			"Team Collaboration: Excellent communication and collaboration skills",
		},
		Experience:        "5+ years of experience in web development",
		Education:         "Bachelor's degree in Computer Science",
		TechnologyTags:    []string{"React", "Node.js", "TypeScript", "Next.js", "Express.js"},
		ProjectsCompleted: "25+",
		YearsExperience:   "5+",
		Technologies:      "15+",
		Certifications:    "8",
	}
}

type SocialLink struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
	Icon string `json:"icon"`
}

type QuickLink struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

type FooterContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Footer struct {
	Copyright   string            `json:"copyright" validate:"required"`
	Tagline     string            `json:"tagline"`
	Description string            `json:"description"`
	SocialLinks []SocialLink      `json:"socialLinks" validate:"dive"`
	QuickLinks  []QuickLink       `json:"quickLinks" validate:"dive"`
	ContactInfo FooterContactInfo `json:"contactInfo"`
}

func DefaultFooter() Footer {
	return Footer{
		Copyright:   "© 2025 Your Name. All rights reserved.",
		Tagline:     "Building amazing digital experiences",
		Description: "Passionate developer creating innovative solutions for the web.",
		SocialLinks: []SocialLink{},
		QuickLinks:  []QuickLink{},
	}
}

type ContactSettings struct {
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Country            string `json:"country"`
	ContactTitle       string `json:"contactTitle" validate:"required"`
	ContactSubtitle    string `json:"contactSubtitle"`
	ContactDescription string `json:"contactDescription"`
	FormEnabled        bool   `json:"formEnabled"`
	AutoReplyEnabled   bool   `json:"autoReplyEnabled"`
	AutoReplyMessage   string `json:"autoReplyMessage"`
}

func DefaultContactSettings() ContactSettings {
	return ContactSettings{
		Email:              "your.email@example.com",
		ContactTitle:       "Get In Touch",
		ContactSubtitle:    "Let's work together",
		ContactDescription: "I'm always interested in hearing about new opportunities and exciting projects.",
		FormEnabled:        true,
		AutoReplyMessage:   "Thank you for your message! I'll get back to you soon.",
	}
}

type ProjectsSettings struct {
	ProjectsTitle       string `json:"projectsTitle" validate:"required"`
	ProjectsSubtitle    string `json:"projectsSubtitle" validate:"required"`
	ViewAllButtonText   string `json:"viewAllButtonText"`
	ViewAllButtonURL    string `json:"viewAllButtonUrl"`
	ShowViewAllButton   bool   `json:"showViewAllButton"`
	MaxFeaturedProjects int    `json:"maxFeaturedProjects" validate:"min=1,max=12"`
}

func DefaultProjectsSettings() ProjectsSettings {
	return ProjectsSettings{
		ProjectsTitle:       "Featured Projects",
		ProjectsSubtitle:    "A showcase of my recent work, demonstrating my skills in full-stack development and problem-solving.",
		ViewAllButtonText:   "View All Projects",
		ViewAllButtonURL:    "/projects",
		ShowViewAllButton:   true,
		MaxFeaturedProjects: 6,
	}
}

// SkillsSettings holds the free-form technology list shown under the skill
// categories.
type SkillsSettings struct {
	AdditionalTechnologies []string `json:"additionalTechnologies"`
}

func DefaultSkillsSettings() SkillsSettings {
	return SkillsSettings{AdditionalTechnologies: []string{}}
}
