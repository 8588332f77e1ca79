package integrations

import (
	"path"
	"strings"
)

// Service describes an external system and the signals that reveal it.
type Service struct {
	Name        string
	Description string
	// Packages are dependency or import path segments naming the SDK.
	Packages []string
	// Hosts are domains (matched with their subdomains) the service serves.
	Hosts []string
	// EnvPrefixes are environment variable name prefixes.
	EnvPrefixes []string
}

// Catalog is the built-in list of recognized external services.
var Catalog = []Service{
	{
		Name: "Stripe", Description: "Payment processing",
		Packages:    []string{"stripe"},
		Hosts:       []string{"stripe.com"},
		EnvPrefixes: []string{"STRIPE"},
	},
	{
		Name: "Twilio", Description: "Communication platform",
		Packages:    []string{"twilio"},
		Hosts:       []string{"twilio.com"},
		EnvPrefixes: []string{"TWILIO"},
	},
	{
		Name: "Sentry", Description: "Error monitoring",
		Packages:    []string{"sentry", "@sentry", "sentry_sdk", "sentry-go"},
		Hosts:       []string{"sentry.io"},
		EnvPrefixes: []string{"SENTRY"},
	},
	{
		Name: "Redis", Description: "In-memory database",
		Packages:    []string{"redis", "ioredis", "go-redis", "redigo"},
		Hosts:       []string{"redis.io", "upstash.io", "redislabs.com"},
		EnvPrefixes: []string{"REDIS"},
	},
	{
		Name: "MongoDB", Description: "NoSQL database",
		Packages:    []string{"mongodb", "mongoose", "pymongo", "motor", "mongo"},
		Hosts:       []string{"mongodb.net", "mongodb.com"},
		EnvPrefixes: []string{"MONGO", "MONGODB"},
	},
	{
		Name: "PostgreSQL", Description: "SQL database",
		Packages:    []string{"pg", "postgres", "postgresql", "psycopg2", "psycopg", "asyncpg", "pgx", "lib/pq"},
		EnvPrefixes: []string{"POSTGRES", "PG"},
	},
	{
		Name: "MySQL", Description: "SQL database",
		Packages:    []string{"mysql", "mysql2", "pymysql", "mysqlclient", "go-sql-driver/mysql"},
		EnvPrefixes: []string{"MYSQL"},
	},
	{
		Name: "Kafka", Description: "Message streaming",
		Packages:    []string{"kafka", "kafkajs", "confluent-kafka", "cp-kafka", "sarama", "kafka-go"},
		EnvPrefixes: []string{"KAFKA"},
	},
	{
		Name: "RabbitMQ", Description: "Message broker",
		Packages:    []string{"amqplib", "rabbitmq", "pika", "amqp091-go"},
		EnvPrefixes: []string{"RABBITMQ", "AMQP"},
	},
	{
		Name: "AWS", Description: "Cloud services",
		Packages:    []string{"aws", "@aws-sdk", "aws-sdk", "boto3", "botocore"},
		Hosts:       []string{"amazonaws.com"},
		EnvPrefixes: []string{"AWS"},
	},
	{
		Name: "GCP", Description: "Google Cloud Platform",
		Packages:    []string{"@google-cloud", "google-cloud", "google.cloud", "cloud.google.com"},
		Hosts:       []string{"googleapis.com"},
		EnvPrefixes: []string{"GCP", "GCLOUD", "GOOGLE_CLOUD"},
	},
	{
		Name: "Azure", Description: "Microsoft Azure",
		Packages:    []string{"@azure", "azure", "azure-sdk-for-go"},
		Hosts:       []string{"azure.com", "windows.net"},
		EnvPrefixes: []string{"AZURE"},
	},
	{
		Name: "OpenAI", Description: "AI/ML services",
		Packages:    []string{"openai", "@openai", "go-openai"},
		Hosts:       []string{"openai.com"},
		EnvPrefixes: []string{"OPENAI"},
	},
	{
		Name: "Anthropic", Description: "AI/ML services",
		Packages:    []string{"anthropic", "@anthropic-ai", "anthropic-sdk-go"},
		Hosts:       []string{"anthropic.com"},
		EnvPrefixes: []string{"ANTHROPIC"},
	},
	{
		Name: "GitHub", Description: "Source hosting API",
		Packages:    []string{"@octokit", "octokit", "pygithub", "go-github"},
		Hosts:       []string{"api.github.com"},
		EnvPrefixes: []string{"GITHUB"},
	},
	{
		Name: "Slack", Description: "Team messaging",
		Packages:    []string{"@slack", "slack-sdk", "slack_sdk", "slack-go"},
		Hosts:       []string{"slack.com"},
		EnvPrefixes: []string{"SLACK"},
	},
	{
		Name: "SendGrid", Description: "Transactional email",
		Packages:    []string{"@sendgrid", "sendgrid", "sendgrid-go"},
		Hosts:       []string{"sendgrid.com", "sendgrid.net"},
		EnvPrefixes: []string{"SENDGRID"},
	},
	{
		Name: "Supabase", Description: "Backend as a service",
		Packages:    []string{"@supabase", "supabase"},
		Hosts:       []string{"supabase.co"},
		EnvPrefixes: []string{"SUPABASE"},
	},
	{
		Name: "Firebase", Description: "Backend as a service",
		Packages:    []string{"firebase", "firebase-admin"},
		Hosts:       []string{"firebaseio.com", "firebaseapp.com"},
		EnvPrefixes: []string{"FIREBASE"},
	},
}

// lookupService returns the catalog entry named name.
func lookupService(name string) (Service, bool) {
	for _, s := range Catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// matchPackage returns the service whose SDK a dependency, import path or
// container image names. Matching is by path segment, so "pg" matches
// "pg" and "pg-promise" but not "upgrade".
func matchPackage(dep string) (Service, bool) {
	dep = strings.ToLower(strings.TrimSpace(dep))
	if dep == "" {
		return Service{}, false
	}
	for _, s := range Catalog {
		for _, p := range s.Packages {
			if strings.Contains(p, "/") {
				if strings.Contains(dep, p) {
					return s, true
				}
				continue
			}
			for _, seg := range strings.Split(dep, "/") {
				if segmentMatches(seg, p) {
					return s, true
				}
			}
		}
	}
	return Service{}, false
}

func segmentMatches(seg, p string) bool {
	if seg == p {
		return true
	}
	for _, sep := range []string{"-", "_", ".", ":"} {
		if strings.HasPrefix(seg, p+sep) {
			return true
		}
	}
	return false
}

// matchImage maps a container image reference such as "bitnami/redis:7"
// to a service.
func matchImage(image string) (Service, bool) {
	name, _, _ := strings.Cut(path.Base(image), ":")
	name, _, _ = strings.Cut(name, "@")
	return matchPackage(name)
}

// matchHost returns the service serving host.
func matchHost(host string) (Service, bool) {
	host = strings.ToLower(host)
	for _, s := range Catalog {
		for _, h := range s.Hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return s, true
			}
		}
	}
	return Service{}, false
}

// matchEnv returns the service an environment variable name belongs to.
func matchEnv(name string) (Service, bool) {
	upper := strings.ToUpper(name)
	for _, s := range Catalog {
		for _, p := range s.EnvPrefixes {
			if upper == p || strings.HasPrefix(upper, p+"_") {
				return s, true
			}
		}
	}
	return Service{}, false
}
