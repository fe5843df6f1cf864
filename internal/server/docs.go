package server

// @title Stargazer API
// @version 1.0
// @description Caching proxy for GitHub repository search and star status.
// @description
// @description Features:
// @description - Repository search without forwarding credentials
// @description - Star status served from a bounded TTL cache
// @description - Star and unstar with precondition checks
//
// @contact.name Stargazer Project
// @contact.url https://github.com/agentstation/stargazer
//
// @license.name MIT
// @license.url https://github.com/agentstation/stargazer/blob/master/LICENSE
//
// @host localhost:3010
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description GitHub token as "Bearer <token>", forwarded upstream for star operations only
