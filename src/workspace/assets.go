package workspace

// Fixed file contents materialized into build contexts. These are the only
// generated artifacts the pipeline ever writes besides the build file itself,
// and their content is deliberately static so fallback builds are reproducible.

// Dockerignore trims the context sent to the builder: dependency caches,
// VCS metadata, logs/coverage, editor droppings, build output.
const Dockerignore = `node_modules
npm-debug.log
yarn-error.log
.git
.gitignore
.svn
.hg
*.log
logs
coverage
.nyc_output
.cache
.env
.env.*
.DS_Store
.vscode
.idea
*.swp
dist
build
out
tmp
`

// FallbackDockerfile is the hand-authored minimal build file used when the
// generated one is invalid or fails to build. It never derives from the
// broken input.
const FallbackDockerfile = `FROM node:18-alpine
WORKDIR /app
COPY package*.json ./
RUN npm install --production
COPY . .
EXPOSE 3000
CMD ["npm", "start"]
`

// FallbackManifest is written when the repository contributed no package
// manifest of its own.
const FallbackManifest = `{
  "name": "dockhand-app",
  "version": "1.0.0",
  "description": "Generated by dockhand",
  "main": "server.js",
  "scripts": {
    "start": "node server.js",
    "dev": "node server.js"
  },
  "dependencies": {
    "express": "^4.18.2"
  },
  "engines": {
    "node": ">=18"
  }
}
`

// FallbackServer is the placeholder entry point written when the build
// context has no entry-point source at all. It binds all interfaces,
// honors PORT, answers a liveness probe, and exits cleanly on SIGTERM.
const FallbackServer = `const http = require('http');

const port = process.env.PORT || 3000;

const server = http.createServer((req, res) => {
  if (req.url === '/health') {
    res.writeHead(200, { 'Content-Type': 'application/json' });
    res.end(JSON.stringify({ status: 'ok' }));
    return;
  }
  res.writeHead(200, { 'Content-Type': 'application/json' });
  res.end(JSON.stringify({ message: 'Deployed with dockhand' }));
});

server.listen(port, '0.0.0.0', () => {
  console.log('Server listening on port ' + port);
});

const shutdown = () => server.close(() => process.exit(0));
process.on('SIGTERM', shutdown);
process.on('SIGINT', shutdown);
`
