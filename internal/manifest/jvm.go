package manifest

import (
	"encoding/xml"
	"regexp"
)

type pomXML struct {
	Parent struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
	} `xml:"parent"`
	Properties struct {
		JavaVersion string `xml:"java.version"`
	} `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Plugins      []pomDependency `xml:"build>plugins>plugin"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

func (d pomDependency) coordinate() string {
	if d.GroupID == "" {
		return d.ArtifactID
	}
	return d.GroupID + ":" + d.ArtifactID
}

func parsePom(data []byte, m *Manifest, _ map[string]bool) error {
	var pom pomXML
	if err := xml.Unmarshal(data, &pom); err != nil {
		return err
	}
	m.Manager = "Maven"
	m.Runtime = pom.Properties.JavaVersion
	if pom.Parent.ArtifactID != "" {
		m.Dependencies = append(m.Dependencies, pomDependency{pom.Parent.GroupID, pom.Parent.ArtifactID}.coordinate())
	}
	for _, d := range pom.Dependencies {
		m.Dependencies = append(m.Dependencies, d.coordinate())
	}
	for _, p := range pom.Plugins {
		m.Dependencies = append(m.Dependencies, p.coordinate())
	}
	return nil
}

var (
	gradleDepRe    = regexp.MustCompile(`(?m)^\s*(?:implementation|api|compileOnly|runtimeOnly|testImplementation|kapt|annotationProcessor)\s*\(?\s*["']([^"':]+):([^"':]+)`)
	gradlePluginRe = regexp.MustCompile(`(?m)^\s*id\s*\(?\s*["']([^"']+)["']`)
	gradleJavaRe   = regexp.MustCompile(`JavaVersion\.VERSION_(\d+)|languageVersion\.set\(JavaLanguageVersion\.of\((\d+)\)\)`)
)

func parseGradle(data []byte, m *Manifest, _ map[string]bool) error {
	m.Manager = "Gradle"
	src := string(data)
	for _, g := range gradleDepRe.FindAllStringSubmatch(src, -1) {
		m.Dependencies = append(m.Dependencies, g[1]+":"+g[2])
	}
	for _, g := range gradlePluginRe.FindAllStringSubmatch(src, -1) {
		m.Dependencies = append(m.Dependencies, g[1])
	}
	if g := gradleJavaRe.FindStringSubmatch(src); g != nil {
		m.Runtime = g[1] + g[2]
	}
	return nil
}
