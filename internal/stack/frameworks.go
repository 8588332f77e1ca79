package stack

import (
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
)

// frameworkRule maps a declared dependency to a framework label. With
// prefix set, any dependency starting with match qualifies.
type frameworkRule struct {
	match  string
	prefix bool
	name   string
}

var frameworkRules = map[manifest.Ecosystem][]frameworkRule{
	manifest.EcosystemNode: {
		{match: "express", name: "Express.js"},
		{match: "next", name: "Next.js"},
		{match: "react", name: "React"},
		{match: "vue", name: "Vue.js"},
		{match: "svelte", name: "Svelte"},
		{match: "@sveltejs/kit", name: "SvelteKit"},
		{match: "@nestjs/core", name: "NestJS"},
		{match: "fastify", name: "Fastify"},
		{match: "koa", name: "Koa.js"},
		{match: "hono", name: "Hono"},
		{match: "@angular/core", name: "Angular"},
		{match: "nuxt", name: "Nuxt"},
		{match: "@remix-run/", prefix: true, name: "Remix"},
	},
	manifest.EcosystemPython: {
		{match: "flask", name: "Flask"},
		{match: "fastapi", name: "FastAPI"},
		{match: "django", name: "Django"},
		{match: "starlette", name: "Starlette"},
		{match: "tornado", name: "Tornado"},
		{match: "aiohttp", name: "aiohttp"},
	},
	manifest.EcosystemGo: {
		{match: "github.com/gin-gonic/gin", name: "Gin"},
		{match: "github.com/labstack/echo", prefix: true, name: "Echo"},
		{match: "github.com/go-chi/chi", prefix: true, name: "chi"},
		{match: "github.com/gofiber/fiber", prefix: true, name: "Fiber"},
		{match: "github.com/gorilla/mux", name: "Gorilla Mux"},
	},
	manifest.EcosystemRust: {
		{match: "actix-web", name: "Actix Web"},
		{match: "axum", name: "Axum"},
		{match: "rocket", name: "Rocket"},
		{match: "warp", name: "Warp"},
	},
	manifest.EcosystemJVM: {
		{match: "org.springframework.boot", prefix: true, name: "Spring Boot"},
		{match: "io.quarkus", prefix: true, name: "Quarkus"},
		{match: "io.micronaut", prefix: true, name: "Micronaut"},
		{match: "io.ktor", prefix: true, name: "Ktor"},
	},
	manifest.EcosystemRuby: {
		{match: "rails", name: "Ruby on Rails"},
		{match: "sinatra", name: "Sinatra"},
	},
	manifest.EcosystemPHP: {
		{match: "laravel/framework", name: "Laravel"},
		{match: "symfony/framework-bundle", name: "Symfony"},
	},
}

// matchFrameworks returns every framework label whose rule matches a
// dependency declared in m.
func matchFrameworks(m manifest.Manifest) []string {
	var out []string
	for _, rule := range frameworkRules[m.Ecosystem] {
		for _, dep := range m.Dependencies {
			if dep == rule.match || (rule.prefix && strings.HasPrefix(dep, rule.match)) {
				out = append(out, rule.name)
				break
			}
		}
	}
	return out
}
